package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaptureStopsAtNearestLabel(t *testing.T) {
	text := "Consignee: Beta Ltd Notify Party: Gamma"
	assert.Equal(t, "Beta Ltd ", Capture(text, lblConsignee, boundaries))
	assert.Equal(t, "Gamma", Capture(text, lblNotify, boundaries))
	assert.Equal(t, "", Capture(text, lblExporter, boundaries))
}

func TestCaptureSkipsMentionsOfLabels(t *testing.T) {
	text := "Notify Party: Same as Consignee\nConsignee: Beta Ltd"
	assert.Equal(t, "Same as Consignee\n", Capture(text, lblNotify, boundaries))
	assert.Equal(t, "Beta Ltd", Capture(text, lblConsignee, boundaries))

	text = "Buyer (if other than consignee): Delta Inc\nConsignee: Beta Ltd"
	assert.Equal(t, "Beta Ltd", Capture(text, lblConsignee, boundaries))
}

func TestCaptureLimitsRunawayBlocks(t *testing.T) {
	text := "Exporter:\n1\n2\n3\n4\n5\n6\n7\n8"
	assert.Equal(t, "1\n2\n3\n4\n5\n6", Capture(text, lblExporter, boundaries))
}

func TestLabelSetNext(t *testing.T) {
	text := "Rotterdam Country of Final Destination: NL"
	at := boundaries.Next(text, 0)
	assert.Equal(t, 10, at)

	assert.Equal(t, -1, boundaries.Next("plain words only", 0))
	assert.Equal(t, -1, boundaries.Next("short", 99))
}

func TestLabelOnly(t *testing.T) {
	assert.True(t, boundaries.LabelOnly("NOTIFY PARTY"))
	assert.True(t, boundaries.LabelOnly("Port of Loading :"))
	assert.False(t, boundaries.LabelOnly("Same as Consignee"))
	assert.False(t, boundaries.LabelOnly("Beta Ltd"))
	assert.False(t, boundaries.LabelOnly(""))
}

func TestCaptureBelow(t *testing.T) {
	text := "Consignee Notify Party\nBETA LTD\nAmsterdam\n\nPort of Loading: Mumbai"
	assert.Equal(t, "BETA LTD\nAmsterdam", CaptureBelow(text, lblConsignee, boundaries))
	assert.Equal(t, "", CaptureBelow("Consignee", lblConsignee, boundaries))
}

func TestCleanupSteps(t *testing.T) {
	cases := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{"noise parenthetical", stripNoise, "Delta (if other than consignee)", "Delta "},
		{"noise page marker", stripNoise, "Beta Page 1 of 2", "Beta "},
		{"label line", dropLabelLines, "NOTIFY PARTY\nBeta Ltd", "Beta Ltd"},
		{"leaked label", cutLeakedLabels, "Beta Ltd\nNotify Party: Gamma", "Beta Ltd\n"},
		{"leading label", cutLeakedLabels, "Consignee: Beta Ltd", " Beta Ltd"},
		{"mention kept", cutLeakedLabels, "Same as Consignee", "Same as Consignee"},
		{"spaces", collapseSpaces, "  Beta   Ltd \n\n  Amsterdam ", "Beta Ltd\nAmsterdam"},
		{"punctuation", trimPunctuation, ": - Beta Ltd.,", "Beta Ltd."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.fn(tc.in))
		})
	}
}

func TestClean(t *testing.T) {
	assert.Equal(t, "Beta Ltd\nAmsterdam", Clean(" :\nBeta  Ltd\nAmsterdam\n", true))
	assert.Equal(t, "Beta Ltd", Clean(" :\nBeta  Ltd\nAmsterdam\n", false))
	assert.Equal(t, "", Clean("  \n ", true))
}

func TestUnitsMT(t *testing.T) {
	cases := map[string]string{
		"25000 KGS":  "25.000 MT",
		"1,500 kg":   "1.500 MT",
		"24 MT":      "24.000 MT",
		"3 TONS":     "3.000 MT",
		"1000 LBS":   "0.454 MT",
		"750":        "0.750 MT",
		"":           "",
		"about half": "",
	}
	for in, want := range cases {
		assert.Equal(t, want, unitsMT(in), "input %q", in)
	}
}

func TestMarksBlock(t *testing.T) {
	text := "Marks & Nos.\nACME/ROT/01\n2 X 40' HC FCL\nSeal: customs\nTotal Packages: 40 cartons\nHS CODE: 1234"
	assert.Equal(t, "2 X 40' HC FCL\nSeal: customs\nTotal Packages: 40 cartons", marksBlock(text))

	text = "Marks & Nos: 400 Cartons\nACME\nPort of Loading: Mumbai"
	assert.Equal(t, "400 Cartons", marksBlock(text))

	assert.Equal(t, "", marksBlock("no shipping marks here"))
}
