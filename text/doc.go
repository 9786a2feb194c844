// Package text provides String, a mutable string held in an instance of the
// Static "String" type.
//
// A String has an allocated size besides its contents. Set, Printf, Append
// and Prepend resize it; the Fixed variants keep the size and truncate:
//
//	s := text.New("")
//	s.Printf("ABC:%d", 123)
//	s.String() // "ABC:123"
//
//	f := text.NewAlloc(4, '-')
//	f.FixedAppend("xy") // false, contents stay "----"
//	s.Destroy()
//	f.Destroy()
package text
