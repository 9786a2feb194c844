// Package list provides an ordered doubly-linked list of values whose nodes
// are instances of the Static "List" type.
//
// Any node may stand for the whole list; Prepend and Append walk to the ends
// first. A nil *List is the empty list:
//
//	var l *list.List
//	l = l.Append(value.Number(1))
//	l = l.Append(value.Number(2))
//	l = l.Prepend(value.Number(0))
//	l.Len() // 3
//	l.Free()
package list
