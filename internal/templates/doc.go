// Package templates provides starter project templates for vbind init.
//
// # Available Templates
//
//   - counter: a message, a counter and two buttons (the default)
//   - minimal: one input mirrored into a heading
//   - form: a small sign-up form with a toggle
//
// # Usage
//
//	tmpl, err := templates.Get("counter")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := tmpl.Create(projectDir, templates.Config{ProjectName: "demo"}); err != nil {
//	    log.Fatal(err)
//	}
//
// # Template Variables
//
// Files are Go text templates using [[ ]] delimiters, so {{ }} binding
// placeholders pass through untouched:
//
//   - [[.ProjectName]]: the project name
//   - [[.Title]]: the page title (defaults to the project name)
package templates
