// Package value provides the tagged Value union and the named Argument list
// used to parameterize construction and signal emission.
//
// A Value holds exactly one of: pointer, string, number, bool, instance.
// Readers must know which variant to expect; that agreement is made out of
// band, by argument name. Reading the wrong variant panics with an
// *errors.Error of kind type_mismatch.
//
// Arguments are looked up by exact name. Names follow the "Owner::field"
// convention so every level of an ancestry chain can share one list:
//
//	args := value.Arguments{
//		{Name: value.Key("Signal", "locking"), Value: value.Bool(true)},
//	}
//	locking := args.Bool(value.Key("Signal", "locking"), false)
package value
