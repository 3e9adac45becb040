package model

// SourceDocument is the plain text of one input file.
type SourceDocument struct {
	Filename string
	Text     string
	ReadErr  error // set when the text could not be obtained
}
