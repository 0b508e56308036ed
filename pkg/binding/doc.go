// Package binding compiles a view tree against observed data.
//
// An Instance owns the data, a method table and the dependency registry.
// Construction walks the view once: each directive it finds becomes a
// Watcher registered under the key it reads, rendered immediately so the
// view starts consistent with the data. From then on every changing write
// re-renders the watchers of that key, in registration order.
//
//	vm, err := binding.New(binding.Options{
//	    El:       "#app",
//	    Document: doc,
//	    Data: func() reactive.Entries {
//	        return reactive.Fields("name", "Ann", "count", 0)
//	    },
//	    Methods: map[string]binding.Method{
//	        "inc": func(vm *binding.Instance) {
//	            vm.Set("count", vm.Get("count").(int)+1)
//	        },
//	    },
//	})
//
// # Directives
//
//   - v-model="key": keeps the node's value in sync and writes input back
//   - @click="method": calls the method with the instance as receiver
//   - v-text="key": renders the value as the node's text
//   - {{ key }}: interpolates values into the node's literal text
//
// The names are configurable through Directives.
//
// # Errors
//
// Configuration mistakes (no root, unknown click method, empty directive)
// fail New with an *errors.Error. Keys the data never declares are not
// errors: their watchers render "undefined" and are never notified.
//
// An Instance is not safe for concurrent use.
package binding
