package prompt

// Category is a coarse classification of what kind of request was made.
type Category string

const (
	CategoryCodeImplementation Category = "code-implementation"
	CategoryCodeDebugging      Category = "code-debugging"
	CategoryCodeReview         Category = "code-review"
	CategoryArchitecture       Category = "architecture"
	CategoryDevOps             Category = "devops"
	CategoryDocumentation      Category = "documentation"
	CategoryLegalBusiness      Category = "legal-business"
	CategoryGeneralQuestion    Category = "general-question"
	CategoryUnclear            Category = "unclear"
)

// AllCategories lists every category the classifier can produce.
var AllCategories = []Category{
	CategoryCodeImplementation,
	CategoryCodeDebugging,
	CategoryCodeReview,
	CategoryArchitecture,
	CategoryDevOps,
	CategoryDocumentation,
	CategoryLegalBusiness,
	CategoryGeneralQuestion,
	CategoryUnclear,
}

// IsCode reports whether the category describes work on code, as opposed to
// prose, process, or conversation.
func (c Category) IsCode() bool {
	switch c {
	case CategoryCodeImplementation, CategoryCodeDebugging, CategoryCodeReview:
		return true
	default:
		return false
	}
}
