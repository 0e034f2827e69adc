package caseform

// helpText is the contextual help shown next to the focused control.
var helpText = map[FieldID]string{
	FieldName:        "Your full name, so our team knows who to address.",
	FieldEmail:       "Where we send case updates. Use an address you check regularly.",
	FieldPhone:       "Optional. Include a country code if you are outside the US.",
	FieldCompany:     "Optional. The organization the affected account belongs to.",
	FieldRecordType:  "The team best placed to handle the case. Pick Technical Support if unsure.",
	FieldRequestType: "Incident: something is broken. Question: how do I. Feature: something new. Service: a change to your account or setup.",
	FieldReason:      "The closest match to what you are seeing. Choose Other if nothing fits.",
	FieldPriority:    "Low: no business impact. Medium: degraded but usable. High: major feature unusable. Critical: production down.",
	FieldSubject:     "A one-line summary. It becomes the case title.",
	FieldDescription: "What happened, what you expected, and the steps to reproduce. At least 10 characters.",
}

// HelpFor returns the contextual help for a field, or "" if there is none.
func HelpFor(f FieldID) string {
	return helpText[f]
}
