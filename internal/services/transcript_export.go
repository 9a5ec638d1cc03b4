package services

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"time"

	"ame_support_backend/internal/models"

	"github.com/jung-kurt/gofpdf"
)

const unicodeFontFamily = "unicode"

// TranscriptExporter renders a session as a PDF for case workers.
type TranscriptExporter struct {
	font []byte
}

// NewTranscriptExporter loads the TrueType font at fontPath for transcript text.
// With an empty path the core fonts are used, which only cover cp1252, so
// Hindi or Tamil text prints as substitutes.
func NewTranscriptExporter(fontPath string) (*TranscriptExporter, error) {
	if fontPath == "" {
		return &TranscriptExporter{}, nil
	}
	font, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript font: %w", err)
	}
	if !isTrueType(font) {
		return nil, fmt.Errorf("transcript font %s is not a TrueType font", fontPath)
	}
	return &TranscriptExporter{font: font}, nil
}

func isTrueType(font []byte) bool {
	if len(font) < 12 {
		return false
	}
	switch binary.BigEndian.Uint32(font) {
	case 0x00010000, 0x74727565: // version 1.0, "true"
		return true
	}
	return false
}

// Export writes the session header followed by every turn in order.
func (e *TranscriptExporter) Export(session *models.ChatSession) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	family := "Helvetica"
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if e.font != nil {
		family = unicodeFontFamily
		pdf.AddUTF8FontFromBytes(family, "", e.font)
		pdf.AddUTF8FontFromBytes(family, "B", e.font)
		tr = func(s string) string { return s }
	}
	pdf.SetTitle("AME chat transcript "+session.SessionID, true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont(family, "B", 16)
	pdf.Cell(0, 10, "AME chat transcript")
	pdf.Ln(12)

	pdf.SetFont(family, "", 10)
	pdf.Cell(0, 6, tr("Session: "+session.SessionID))
	pdf.Ln(6)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Language: %s   Context retention: %t", LanguageName(session.Language), session.ContextRetention)))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Started: "+session.CreatedAt.UTC().Format(time.RFC3339))
	pdf.Ln(10)

	for _, turn := range session.Turns {
		header := fmt.Sprintf("%s  %s", turn.Role, turn.Timestamp.UTC().Format(time.RFC3339))
		if turn.Severity != "" {
			header += "  severity: " + string(turn.Severity)
		}
		if len(turn.Resources) > 0 {
			header += fmt.Sprintf("  resources: %v", []string(turn.Resources))
		}
		pdf.SetFont(family, "B", 10)
		pdf.MultiCell(0, 5, tr(header), "", "L", false)
		pdf.SetFont(family, "", 10)
		pdf.MultiCell(0, 5, tr(turn.Content), "", "L", false)
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
