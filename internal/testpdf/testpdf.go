// Package testpdf assembles minimal, uncompressed PDF documents in memory
// for exercising form extraction and write-back in tests without shipping
// binary fixtures.
package testpdf

import (
	"bytes"
	"fmt"
)

// FormPDF returns a single-page document with one field of every kind the
// filler handles, plus one unsupported choice field:
//
//	fullName   text field, flagged required
//	comments   multiline text field (Ff bit 13)
//	subscribe  checkbox, initially off, on-state "Yes"
//	color      radio group with kids "Red" and "Blue", "Red" preselected
//	country    choice field (unsupported kind)
func FormPDF() []byte {
	objects := []string{
		// 1: catalog
		"<</Type/Catalog/Pages 2 0 R/AcroForm 3 0 R>>",
		// 2: page tree
		"<</Type/Pages/Kids[4 0 R]/Count 1>>",
		// 3: acroform
		"<</Fields[5 0 R 6 0 R 7 0 R 10 0 R 13 0 R]/DA(/Helv 0 Tf 0 g)>>",
		// 4: page
		"<</Type/Page/Parent 2 0 R/MediaBox[0 0 612 792]/Annots[5 0 R 6 0 R 8 0 R 9 0 R 10 0 R 13 0 R]>>",
		// 5: text field, merged widget, flagged required
		"<</Type/Annot/Subtype/Widget/FT/Tx/Ff 2/T(fullName)/Rect[50 700 300 720]/F 4>>",
		// 6: checkbox, on-state Yes
		"<</Type/Annot/Subtype/Widget/FT/Btn/T(subscribe)/V/Off/AS/Off" +
			"/AP<</N<</Yes 11 0 R/Off 12 0 R>>>>/Rect[50 660 62 672]/F 4>>",
		// 7: radio group parent, Red preselected
		"<</FT/Btn/Ff 32768/T(color)/V/Red/Kids[8 0 R 9 0 R]>>",
		// 8: radio kid, on-state Red
		"<</Type/Annot/Subtype/Widget/Parent 7 0 R/AS/Red" +
			"/AP<</N<</Red 11 0 R/Off 12 0 R>>>>/Rect[50 620 62 632]/F 4>>",
		// 9: radio kid, on-state Blue
		"<</Type/Annot/Subtype/Widget/Parent 7 0 R/AS/Off" +
			"/AP<</N<</Blue 11 0 R/Off 12 0 R>>>>/Rect[80 620 92 632]/F 4>>",
		// 10: multiline text field
		"<</Type/Annot/Subtype/Widget/FT/Tx/Ff 4096/T(comments)/Rect[50 500 300 600]/F 4>>",
		// 11: shared on-state appearance
		"<</Type/XObject/Subtype/Form/BBox[0 0 12 12]/Length 0>>\nstream\n\nendstream",
		// 12: shared off-state appearance
		"<</Type/XObject/Subtype/Form/BBox[0 0 12 12]/Length 0>>\nstream\n\nendstream",
		// 13: choice field, unsupported by the filler
		"<</Type/Annot/Subtype/Widget/FT/Ch/T(country)/Opt[(Iceland)(Norway)]/Rect[50 460 300 480]/F 4>>",
	}
	return assemble(objects)
}

// OptRadioPDF returns a single-page document with one radio group whose
// options come from an /Opt array. The kid widgets carry index on-states
// ("0", "1"), the way /Opt-backed groups are built in practice:
//
//	paint  radio group, /Opt [(Rouge)(Bleu)], nothing preselected
func OptRadioPDF() []byte {
	objects := []string{
		// 1: catalog
		"<</Type/Catalog/Pages 2 0 R/AcroForm 3 0 R>>",
		// 2: page tree
		"<</Type/Pages/Kids[4 0 R]/Count 1>>",
		// 3: acroform
		"<</Fields[5 0 R]/DA(/Helv 0 Tf 0 g)>>",
		// 4: page
		"<</Type/Page/Parent 2 0 R/MediaBox[0 0 612 792]/Annots[6 0 R 7 0 R]>>",
		// 5: radio group parent with /Opt values
		"<</FT/Btn/Ff 32768/T(paint)/V/Off/Opt[(Rouge)(Bleu)]/Kids[6 0 R 7 0 R]>>",
		// 6: radio kid, on-state 0
		"<</Type/Annot/Subtype/Widget/Parent 5 0 R/AS/Off" +
			"/AP<</N<</0 8 0 R/Off 9 0 R>>>>/Rect[50 620 62 632]/F 4>>",
		// 7: radio kid, on-state 1
		"<</Type/Annot/Subtype/Widget/Parent 5 0 R/AS/Off" +
			"/AP<</N<</1 8 0 R/Off 9 0 R>>>>/Rect[80 620 92 632]/F 4>>",
		// 8: shared on-state appearance
		"<</Type/XObject/Subtype/Form/BBox[0 0 12 12]/Length 0>>\nstream\n\nendstream",
		// 9: shared off-state appearance
		"<</Type/XObject/Subtype/Form/BBox[0 0 12 12]/Length 0>>\nstream\n\nendstream",
	}
	return assemble(objects)
}

// NoFormPDF returns a single-page document without an AcroForm.
func NoFormPDF() []byte {
	objects := []string{
		"<</Type/Catalog/Pages 2 0 R>>",
		"<</Type/Pages/Kids[3 0 R]/Count 1>>",
		"<</Type/Page/Parent 2 0 R/MediaBox[0 0 612 792]>>",
	}
	return assemble(objects)
}

// assemble lays out the numbered objects, computes exact xref offsets and
// terminates the file with a classic xref table and trailer.
func assemble(objects []string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n")

	offsets := make([]int, len(objects)+1)
	for i, body := range objects {
		offsets[i+1] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(objects); i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<</Size %d/Root 1 0 R>>\nstartxref\n%d\n%%%%EOF\n",
		len(objects)+1, xrefOffset)

	return buf.Bytes()
}
