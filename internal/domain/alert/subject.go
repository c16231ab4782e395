package alert

import "strings"

const (
	subjectSeparator     = "\n - \n"
	responseCheckSuffix  = "Did we get a response ?  "
	contractEndingSuffix = "CONTRACT ENDING "
)

// ResponseSubject builds the subject for the 27-day alert.
func ResponseSubject(status, address string) string {
	return buildSubject(status, address, responseCheckSuffix)
}

// ContractEndingSubject builds the subject for the one-month alert.
func ContractEndingSubject(status, address string) string {
	return buildSubject(status, address, contractEndingSuffix)
}

// Subject picks the builder for k.
func Subject(k Kind, status, address string) string {
	if k == KindContractEnding {
		return ContractEndingSubject(status, address)
	}
	return ResponseSubject(status, address)
}

func buildSubject(status, address, suffix string) string {
	var b strings.Builder
	b.WriteString(status)
	b.WriteString(subjectSeparator)
	b.WriteString(address)
	b.WriteString(subjectSeparator)
	b.WriteString(suffix)
	return b.String()
}
