package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// PrescriptionMedication is one medication line on a printed prescription.
type PrescriptionMedication struct {
	Name         string
	Dosage       string
	Duration     string
	Morning      bool
	Afternoon    bool
	Evening      bool
	TimingDetail string
	Instructions string
}

// Prescription holds everything rendered onto a prescription PDF.
type Prescription struct {
	DoctorName           string
	DoctorSpecialization string
	PatientName          string
	PatientPhone         string
	AppointmentDate      time.Time
	ChiefComplaint       string
	Diagnosis            string
	FollowUp             string
	Medications          []PrescriptionMedication
}

// GeneratePrescriptionPDF renders a prescription as an A4 PDF document.
func GeneratePrescriptionPDF(p Prescription) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(30, 60, 120)
	pdf.CellFormat(0, 10, p.DoctorName, "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(90, 90, 90)
	if p.DoctorSpecialization != "" {
		pdf.CellFormat(0, 6, p.DoctorSpecialization, "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 6, p.AppointmentDate.Format("02 Jan 2006"), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	pdf.SetDrawColor(30, 60, 120)
	pdf.Line(12, pdf.GetY(), 198, pdf.GetY())
	pdf.Ln(4)

	pdf.SetTextColor(0, 0, 0)
	addDetail(pdf, "Patient", p.PatientName)
	if p.PatientPhone != "" {
		addDetail(pdf, "Phone", p.PatientPhone)
	}
	if p.ChiefComplaint != "" {
		addDetail(pdf, "Complaint", p.ChiefComplaint)
	}
	if p.Diagnosis != "" {
		addDetail(pdf, "Diagnosis", p.Diagnosis)
	}
	pdf.Ln(4)

	if len(p.Medications) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, "Rx", "", 1, "L", false, 0, "")

		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(235, 238, 245)
		pdf.CellFormat(60, 7, "Medication", "1", 0, "L", true, 0, "")
		pdf.CellFormat(28, 7, "Dosage", "1", 0, "L", true, 0, "")
		pdf.CellFormat(30, 7, "Frequency", "1", 0, "C", true, 0, "")
		pdf.CellFormat(36, 7, "Timing", "1", 0, "L", true, 0, "")
		pdf.CellFormat(32, 7, "Duration", "1", 1, "L", true, 0, "")

		pdf.SetFont("Arial", "", 9)
		for _, m := range p.Medications {
			pdf.CellFormat(60, 7, m.Name, "1", 0, "L", false, 0, "")
			pdf.CellFormat(28, 7, m.Dosage, "1", 0, "L", false, 0, "")
			pdf.CellFormat(30, 7, frequencyLabel(m), "1", 0, "C", false, 0, "")
			pdf.CellFormat(36, 7, timingLabel(m.TimingDetail), "1", 0, "L", false, 0, "")
			pdf.CellFormat(32, 7, m.Duration, "1", 1, "L", false, 0, "")
			if m.Instructions != "" {
				pdf.SetFont("Arial", "I", 8)
				pdf.CellFormat(186, 5, "    "+m.Instructions, "LRB", 1, "L", false, 0, "")
				pdf.SetFont("Arial", "", 9)
			}
		}
		pdf.Ln(4)
	}

	if p.FollowUp != "" {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 8, "Follow-up", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 6, p.FollowUp, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering prescription pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func addDetail(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(30, 6, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

// frequencyLabel renders the morning/afternoon/evening schedule in the
// conventional 1-0-1 notation.
func frequencyLabel(m PrescriptionMedication) string {
	mark := func(b bool) string {
		if b {
			return "1"
		}
		return "0"
	}
	return mark(m.Morning) + "-" + mark(m.Afternoon) + "-" + mark(m.Evening)
}

func timingLabel(detail string) string {
	if detail == "" || detail == "anytime" {
		return "Anytime"
	}
	words := strings.Split(detail, "_")
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
