package validations

// Violation describes one failed rule for one attribute.
// Values are created fresh on every evaluation and never shared between passes.
type Violation struct {
	Attribute      string
	Message        string
	Kind           Kind
	Type           string
	TranslationKey string
	Values         map[string]any
}

// NewViolation builds a violation with an explicit message. It is used by
// error translators that turn storage failures into validation results.
func NewViolation(attribute, violationType, message string) Violation {
	return Violation{
		Attribute:      attribute,
		Message:        message,
		Type:           violationType,
		TranslationKey: translationKey(violationType),
		Values: map[string]any{
			"attribute": attribute,
		},
	}
}

func (v Violation) String() string {
	return v.Message
}

func translationKey(violationType string) string {
	return "validation." + violationType
}
