package enums

// Set is an ordered, closed set of labels. A label's position in the set is
// its wire ordinal, so declaration order here is part of the API contract and
// must never be reordered.
type Set struct {
	name   string
	labels []string
	index  map[string]int
}

// NewSet builds a Set from labels in wire order.
func NewSet(name string, labels ...string) Set {
	index := make(map[string]int, len(labels))
	for i, label := range labels {
		index[label] = i
	}
	return Set{name: name, labels: labels, index: index}
}

// Name returns the set's name, used in validation messages.
func (s Set) Name() string {
	return s.name
}

// Labels returns the labels in wire order.
func (s Set) Labels() []string {
	out := make([]string, len(s.labels))
	copy(out, s.labels)
	return out
}

// Len returns the number of labels in the set.
func (s Set) Len() int {
	return len(s.labels)
}

// Index returns the wire ordinal for a label.
func (s Set) Index(label string) (int, bool) {
	i, ok := s.index[label]
	return i, ok
}

// Label returns the label for a wire ordinal.
func (s Set) Label(ordinal int) (string, bool) {
	if ordinal < 0 || ordinal >= len(s.labels) {
		return "", false
	}
	return s.labels[ordinal], true
}

// Contains reports whether label belongs to the set.
func (s Set) Contains(label string) bool {
	_, ok := s.index[label]
	return ok
}

var (
	// Status values are sent as literal strings on the wire, never ordinals.
	Status = NewSet("status",
		"Break",
		"Completed",
		"Live",
		"Paused",
		"Stopped",
	)

	Directorate = NewSet("directorate",
		"AHI",
		"CEx",
		"CFS",
		"CHE",
		"Education",
		"F & R",
		"School",
	)

	Program = NewSet("apprenticeshipProgram",
		"CDQ",
		"New Recruit",
		"School CDQ",
		"School New Recruit",
	)

	Gender = NewSet("gender",
		"Female",
		"Male",
		"Prefer Not to Say",
		"Non-Binary",
		"Transgender",
	)

	Ethnicity = NewSet("ethnicity",
		"African",
		"Asian",
		"Asian British",
		"Black British",
		"Caribbean",
		"Indian",
		"Mixed",
		"Other",
		"Prefer Not to Say",
		"Turkish",
		"White British",
		"White Other",
	)

	Achievement = NewSet("achievement",
		"Achieved",
		"Non Achieved",
		"Partial Achievement",
	)

	Classification = NewSet("classification",
		"Career Development Qualification",
		"Newly Recruited Hackney Council Employee",
		"Newly Recruited School Employee",
		"Upskilling School Employee",
	)

	CertificateStatus = NewSet("certificatesReceived",
		"Lost",
		"Out for Delivery",
		"Received",
	)

	Progression = NewSet("progressionTracker",
		"Council Job",
		"External Job or Apprenticeship",
		"External Promotion",
		"Further LBH Apprenticeship",
		"Higher Education",
		"Leaver",
		"NEET",
		"No Council Job",
		"Promotion",
		"Unknown",
	)

	NonCompletionReason = NewSet("nonCompletionReason",
		"Changed Training Provider",
		"Contract Ended",
		"Dismissed",
		"NEET",
		"Personal Reason",
		"Programme Dissatisfaction",
		"Redundancy",
		"Resigned",
		"Sickness",
		"Training Provider Fault",
		"Unknown",
		"Work Demands",
	)
)
