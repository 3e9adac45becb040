// Package pdftext pulls the plain text out of PDF page content streams.
package pdftext

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/text/encoding/charmap"
)

// ExtractFile reads the PDF at path and returns its text, pages separated by newlines.
func ExtractFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return Extract(f)
}

// Extract returns the text of every page of the PDF in rs.
func Extract(rs io.ReadSeeker) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("pdfcpu panic: %v", r)
		}
	}()

	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(rs, conf)
	if err != nil {
		return "", fmt.Errorf("pdfcpu read: %w", err)
	}

	var pages []string
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
		if err != nil || r == nil {
			continue
		}
		data, err := io.ReadAll(r)
		if err != nil || len(data) == 0 {
			continue
		}
		if pageText := ContentText(data); pageText != "" {
			pages = append(pages, pageText)
		}
	}
	if len(pages) == 0 {
		return "", fmt.Errorf("no text content found in PDF")
	}
	return strings.Join(pages, "\n"), nil
}

// ContentText interprets the text operators of a page content stream.
// Tj, TJ, ' and " show text. T*, ', ", ET and a Td/TD with a vertical move
// start a new line.
func ContentText(stream []byte) string {
	var lines []string
	var cur strings.Builder

	newline := func() {
		if s := strings.Join(strings.Fields(cur.String()), " "); s != "" {
			lines = append(lines, s)
		}
		cur.Reset()
	}

	var strs [][]byte
	var nums []float64
	show := func() {
		for _, s := range strs {
			cur.WriteString(decode(s))
		}
	}

	for i := 0; i < len(stream); i++ {
		c := stream[i]
		switch {
		case isSpace(c) || c == '[' || c == ']' || c == '{' || c == '}':
		case c == '%':
			for i < len(stream) && stream[i] != '\n' && stream[i] != '\r' {
				i++
			}
		case c == '(':
			s, end := literal(stream, i)
			strs = append(strs, s)
			i = end
		case c == '<' && i+1 < len(stream) && stream[i+1] == '<':
			i++
		case c == '>':
			// end of a dictionary
		case c == '<':
			end := bytes.IndexByte(stream[i:], '>')
			if end < 0 {
				i = len(stream)
				continue
			}
			strs = append(strs, hexBytes(stream[i+1:i+end]))
			i += end
		case c == ')':
		case c == '/':
			j := i + 1
			for j < len(stream) && !isSpace(stream[j]) && !isDelim(stream[j]) {
				j++
			}
			i = j - 1
		default:
			j := i
			for j < len(stream) && !isSpace(stream[j]) && !isDelim(stream[j]) {
				j++
			}
			tok := string(stream[i:j])
			i = j - 1
			if f, err := strconv.ParseFloat(tok, 64); err == nil {
				nums = append(nums, f)
				continue
			}
			switch tok {
			case "Tj", "TJ":
				show()
			case "'", "\"":
				newline()
				show()
			case "T*", "ET":
				newline()
			case "Td", "TD":
				if len(nums) >= 2 && nums[len(nums)-1] != 0 {
					newline()
				} else {
					cur.WriteByte(' ')
				}
			}
			strs = strs[:0]
			nums = nums[:0]
		}
	}
	newline()
	return strings.Join(lines, "\n")
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t' || c == '\f' || c == 0
}

func isDelim(c byte) bool {
	return strings.IndexByte("()<>[]{}/%", c) >= 0
}

// literal decodes the balanced literal string starting at stream[start] == '('
// and returns it with the index of the closing parenthesis.
func literal(stream []byte, start int) ([]byte, int) {
	var out []byte
	depth := 0
	for i := start; i < len(stream); i++ {
		c := stream[i]
		switch {
		case c == '\\' && i+1 < len(stream):
			i++
			switch e := stream[i]; {
			case e == 'n':
				out = append(out, '\n')
			case e == 'r':
				out = append(out, '\r')
			case e == 't':
				out = append(out, '\t')
			case e == 'b' || e == 'f':
			case e == '\n' || e == '\r':
				// line continuation
			case e >= '0' && e <= '7':
				val := 0
				for n := 0; n < 3 && i < len(stream) && stream[i] >= '0' && stream[i] <= '7'; n++ {
					val = val*8 + int(stream[i]-'0')
					i++
				}
				i--
				out = append(out, byte(val))
			default:
				out = append(out, e)
			}
		case c == '(':
			if depth > 0 {
				out = append(out, c)
			}
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return out, i
			}
			out = append(out, c)
		default:
			out = append(out, c)
		}
	}
	return out, len(stream)
}

func hexBytes(h []byte) []byte {
	h = bytes.Join(bytes.Fields(h), nil)
	if len(h)%2 == 1 {
		h = append(h, '0')
	}
	out := make([]byte, 0, len(h)/2)
	for i := 0; i+1 < len(h); i += 2 {
		v, err := strconv.ParseUint(string(h[i:i+2]), 16, 8)
		if err != nil {
			return out
		}
		out = append(out, byte(v))
	}
	return out
}

// decode converts a PDF string to UTF-8. Strings starting with a UTF-16BE BOM
// are decoded as such, everything else as Windows-1252.
func decode(b []byte) string {
	if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
		var sb strings.Builder
		for i := 2; i+1 < len(b); i += 2 {
			sb.WriteRune(rune(uint16(b[i])<<8 | uint16(b[i+1])))
		}
		return sb.String()
	}
	s, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(s)
}
