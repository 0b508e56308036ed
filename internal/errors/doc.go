// Package errors provides structured, actionable errors for vbind.
//
// Configuration mistakes are the only failures the binding engine surfaces:
// a root selector that matches nothing, a click directive naming a method
// that does not exist, an empty directive value. Each of these has a code
// that maps to a message, a longer explanation and a documentation link.
//
// # Error Categories
//
//   - binding: mistakes found while compiling a view against an instance
//   - template: markup that could not be parsed or loaded
//   - config: invalid project configuration
//   - server: live host failures
//   - cli: command line usage errors
//
// # Usage
//
//	err := errors.New("E101").
//	    WithDetail(`@click="save" but no method "save" is defined`).
//	    WithSuggestion(`Add "save" to Options.Methods`)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E101: Unknown click handler method
//	//
//	//   @click="save" but no method "save" is defined
//	//
//	//   Hint: Add "save" to Options.Methods
package errors
