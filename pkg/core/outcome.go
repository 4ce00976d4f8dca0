package core

// OutcomeKind classifies a dispatch result before wire encoding.
type OutcomeKind int

const (
	OutcomeText OutcomeKind = iota
	OutcomeStructured
	OutcomeNotFound
	OutcomeInternalError
	OutcomeBadRequest
	OutcomeTooLarge
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeText:
		return "text"
	case OutcomeStructured:
		return "structured"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeInternalError:
		return "internal_error"
	case OutcomeBadRequest:
		return "bad_request"
	case OutcomeTooLarge:
		return "too_large"
	default:
		return "unknown"
	}
}

// Outcome is what the encoder turns into a response.
type Outcome struct {
	Kind  OutcomeKind
	Text  string // OutcomeText
	Value any    // OutcomeStructured
	Err   error  // error kinds
	Route string // matched handler name, empty when nothing matched
}

func TextOutcome(s string) Outcome {
	return Outcome{Kind: OutcomeText, Text: s}
}

func ValueOutcome(v any) Outcome {
	return Outcome{Kind: OutcomeStructured, Value: v}
}

func ErrorOutcome(k OutcomeKind, err error) Outcome {
	return Outcome{Kind: k, Err: err}
}
