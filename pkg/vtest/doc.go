// Package vtest provides testing helpers for bound pages.
//
// The vtest package reduces boilerplate when testing templates by
// providing a fluent page builder, event helpers and render assertions.
//
// # Quick Start
//
//	func TestGreeting(t *testing.T) {
//	    page := vtest.NewPage(`<div id="app"><input v-model="name"><p>Hi {{name}}</p></div>`).
//	        WithData("name", "Ada").
//	        Build(t)
//
//	    page.Input("input", "Grace")
//	    page.ExpectText("p", "Hi Grace")
//	}
//
// # Methods
//
//	page := vtest.NewPage(markup).
//	    WithData("count", 0).
//	    WithMethod("inc", func(vm *binding.Instance) {
//	        vm.Set("count", vm.Get("count").(int)+1)
//	    }).
//	    Build(t)
//	page.Click("button")
//
// # Mutations
//
// Every property change made after Build is recorded, so tests can
// assert on exactly what an event touched:
//
//	page.ResetMutations()
//	page.Click("button")
//	if len(page.Mutations()) != 1 { ... }
package vtest
