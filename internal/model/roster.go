package model

// WantedEntry is a row of the roster of companies the user is interested in.
type WantedEntry struct {
	Name  string
	RawID string
}

// UniverseEntry is a row of the roster of every known company.
type UniverseEntry struct {
	Code  string
	Name  string
	RawID string
}

// ReconciledEntry pairs a universe code with the wanted company data.
type ReconciledEntry struct {
	Code  string
	Name  string
	TaxID string // normalized, empty or 14 digits
}
