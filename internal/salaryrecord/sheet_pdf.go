package salaryrecord

import (
	"bytes"
	"fmt"
	"strings"
)

const pdfLinesPerPage = 50

// RenderPDF lays the sheet out as plain text lines across as many A4
// landscape pages as needed.
func RenderPDF(s Sheet) ([]byte, error) {
	lines := []string{s.Title(), ""}
	lines = append(lines, pdfRow(sheetColumns[:12]))

	for _, row := range s.Rows {
		lines = append(lines, pdfRow([]string{
			row.EmployeeCode,
			row.Name,
			row.Designation,
			FormatAmount(row.BaseSalary),
			fmt.Sprint(row.AttendanceDays),
			fmt.Sprint(row.LeaveUnpaid),
			FormatAmount(row.Bonus),
			FormatAmount(row.IncrementAdjustment),
			FormatAmount(row.AdvanceTaken),
			FormatAmount(row.Penalty),
			FormatAmount(row.Total),
			row.Status,
		}))
		if len(row.LeaveDates) > 0 {
			lines = append(lines, "    leave: "+strings.Join(row.LeaveDates, ", "))
		}
	}

	lines = append(lines,
		"",
		"Total payroll: "+FormatAmount(s.Totals.Total),
		"Paid: "+FormatAmount(s.Totals.Paid),
		"Pending: "+FormatAmount(s.Totals.Pending),
	)

	return buildTextPDF(lines), nil
}

func pdfRow(cells []string) string {
	widths := []int{10, 20, 14, 11, 4, 4, 10, 10, 10, 10, 11, 8}
	var b strings.Builder
	for i, cell := range cells {
		w := 12
		if i < len(widths) {
			w = widths[i]
		}
		if runes := []rune(cell); len(runes) > w {
			cell = string(runes[:w])
		}
		b.WriteString(fmt.Sprintf("%-*s ", w, cell))
	}
	return strings.TrimRight(b.String(), " ")
}

func buildTextPDF(lines []string) []byte {
	var pages [][]string
	for len(lines) > pdfLinesPerPage {
		pages = append(pages, lines[:pdfLinesPerPage])
		lines = lines[pdfLinesPerPage:]
	}
	pages = append(pages, lines)

	// object ids: 1 catalog, 2 pages, 3 font, then page/content pairs
	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"",
		"3 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Courier >>\nendobj\n",
	}

	kids := make([]string, 0, len(pages))
	for i, page := range pages {
		pageID := 4 + i*2
		contentID := pageID + 1
		kids = append(kids, fmt.Sprintf("%d 0 R", pageID))

		var content strings.Builder
		content.WriteString("BT\n/F3 8 Tf\n10 TL\n30 560 Td\n")
		for j, line := range page {
			if j == 0 {
				content.WriteString(fmt.Sprintf("(%s) Tj\n", pdfEscape(line)))
				continue
			}
			content.WriteString(fmt.Sprintf("T* (%s) Tj\n", pdfEscape(line)))
		}
		content.WriteString("ET")
		stream := content.String()

		objects = append(objects,
			fmt.Sprintf("%d 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 842 595] /Resources << /Font << /F3 3 0 R >> >> /Contents %d 0 R >>\nendobj\n", pageID, contentID),
			fmt.Sprintf("%d 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", contentID, len(stream), stream),
		)
	}
	objects[1] = fmt.Sprintf("2 0 obj\n<< /Type /Pages /Kids [%s] /Count %d >>\nendobj\n", strings.Join(kids, " "), len(pages))

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")
	offsets := make([]int, 0, len(objects)+1)
	offsets = append(offsets, 0)
	for _, obj := range objects {
		offsets = append(offsets, out.Len())
		out.WriteString(obj)
	}

	xrefStart := out.Len()
	out.WriteString(fmt.Sprintf("xref\n0 %d\n", len(offsets)))
	out.WriteString("0000000000 65535 f \n")
	for i := 1; i < len(offsets); i++ {
		out.WriteString(fmt.Sprintf("%010d 00000 n \n", offsets[i]))
	}
	out.WriteString(fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF", len(offsets), xrefStart))

	return out.Bytes()
}

// pdfEscape keeps the Type1 font text printable.
func pdfEscape(v string) string {
	var b strings.Builder
	for _, r := range v {
		switch {
		case r == '\\' || r == '(' || r == ')':
			b.WriteRune('\\')
			b.WriteRune(r)
		case r < 32 || r > 126:
			b.WriteRune('?')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
