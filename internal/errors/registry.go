package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// Detail returns the registered long explanation for code.
func Detail(code string) string {
	return registry[code].Detail
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Binding Errors (E100-E199)
	// ============================================

	"E100": {
		Category: CategoryBinding,
		Message:  "Root element not found",
		Detail:   "The el selector did not match any node in the document, so there is nothing to compile.",
		DocURL:   "https://vbind.dev/docs/errors/E100",
	},
	"E101": {
		Category: CategoryBinding,
		Message:  "Unknown click handler method",
		Detail:   "A click directive names a method that is not in the method table. Click handlers are wired once at startup and must resolve.",
		DocURL:   "https://vbind.dev/docs/errors/E101",
	},
	"E102": {
		Category: CategoryBinding,
		Message:  "Empty directive value",
		Detail:   "A directive attribute was present without a key or method name.",
		DocURL:   "https://vbind.dev/docs/errors/E102",
	},
	"E103": {
		Category: CategoryTemplate,
		Message:  "Template could not be parsed",
		Detail:   "The markup passed to the document parser was rejected.",
		DocURL:   "https://vbind.dev/docs/errors/E103",
	},
	"E104": {
		Category: CategoryBinding,
		Message:  "Missing data factory",
		Detail:   "Options.Data must be a function returning the initial data entries.",
		DocURL:   "https://vbind.dev/docs/errors/E104",
	},
	"E105": {
		Category: CategoryTemplate,
		Message:  "Template could not be loaded",
		Detail:   "The template source could not be read from disk or object storage.",
		DocURL:   "https://vbind.dev/docs/errors/E105",
	},

	// ============================================
	// Config Errors (E200-E299)
	// ============================================

	"E200": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "Neither vbind.yaml, vbind.yml nor vbind.json exists in the project directory.",
		DocURL:   "https://vbind.dev/docs/errors/E200",
	},
	"E201": {
		Category: CategoryConfig,
		Message:  "Configuration file is invalid",
		Detail:   "The configuration file could not be decoded.",
		DocURL:   "https://vbind.dev/docs/errors/E201",
	},
	"E202": {
		Category: CategoryConfig,
		Message:  "Invalid method definition",
		Detail:   "Each method needs a known op and the key it acts on.",
		DocURL:   "https://vbind.dev/docs/errors/E202",
	},
	"E203": {
		Category: CategoryConfig,
		Message:  "Invalid directive names",
		Detail:   "Directive names and interpolation delimiters must be non-empty and distinct.",
		DocURL:   "https://vbind.dev/docs/errors/E203",
	},
	"E204": {
		Category: CategoryConfig,
		Message:  "Invalid server settings",
		Detail:   "The server port must be between 0 and 65535.",
		DocURL:   "https://vbind.dev/docs/errors/E204",
	},

	// ============================================
	// Server Errors (E300-E399)
	// ============================================

	"E300": {
		Category: CategoryServer,
		Message:  "Session could not be created",
		Detail:   "Mounting the page for a new connection failed.",
		DocURL:   "https://vbind.dev/docs/errors/E300",
	},

	// ============================================
	// CLI Errors (E400-E499)
	// ============================================

	"E400": {
		Category: CategoryCLI,
		Message:  "Invalid command argument",
		Detail:   "Arguments of the form key=value or ref=value were expected.",
		DocURL:   "https://vbind.dev/docs/errors/E400",
	},
}
