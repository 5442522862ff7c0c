package subtitle

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/mgpai22/captime/internal/timeline"
)

// Region describes where captions are laid out on screen.
type Region struct {
	ID           string `yaml:"id"`
	DisplayAlign string `yaml:"display_align"`
	Extent       string `yaml:"extent"`
	Origin       string `yaml:"origin"`
	WritingMode  string `yaml:"writing_mode"`
}

// TextStyle is the default caption text style.
type TextStyle struct {
	ID         string `yaml:"id"`
	Color      string `yaml:"color"`
	FontFamily string `yaml:"font_family"`
	FontSize   string `yaml:"font_size"`
	FontStyle  string `yaml:"font_style"`
	FontWeight string `yaml:"font_weight"`
}

// ITTOptions configures TTML (iTunes Timed Text) output.
type ITTOptions struct {
	FrameRate           int       `yaml:"frame_rate"`
	FrameRateMultiplier string    `yaml:"frame_rate_multiplier"`
	DropMode            string    `yaml:"drop_mode"`
	Language            string    `yaml:"language"`
	HighlightColor      string    `yaml:"highlight_color"`
	Region              Region    `yaml:"region"`
	Style               TextStyle `yaml:"style"`
}

func DefaultITTOptions() ITTOptions {
	return ITTOptions{
		FrameRate:           timeline.DefaultFrameRate,
		FrameRateMultiplier: "1000 1001",
		DropMode:            "nonDrop",
		Language:            "en",
		HighlightColor:      "yellow",
		Region: Region{
			ID:           "bottom",
			DisplayAlign: "after",
			Extent:       "100% 15%",
			Origin:       "0% 85%",
			WritingMode:  "lrtb",
		},
		Style: TextStyle{
			ID:         "normal",
			Color:      "white",
			FontFamily: "sansSerif",
			FontSize:   "100%",
			FontStyle:  "normal",
			FontWeight: "normal",
		},
	}
}

var ittNamespaces = [][2]string{
	{"xmlns", "http://www.w3.org/ns/ttml"},
	{"xmlns:vt", "http://namespace.itunes.apple.com/itt/ttml-extension#vertical"},
	{"xmlns:ttp", "http://www.w3.org/ns/ttml#parameter"},
	{"xmlns:ittp", "http://www.w3.org/ns/ttml/profile/imsc1#parameter"},
	{"xmlns:tt_feature", "http://www.w3.org/ns/ttml/feature/"},
	{"xmlns:ebutts", "urn:ebu:tt:style"},
	{"xmlns:tts", "http://www.w3.org/ns/ttml#styling"},
	{"xmlns:tt_extension", "http://www.w3.org/ns/ttml/extension/"},
	{"xmlns:tt_profile", "http://www.w3.org/ns/ttml/profile/"},
	{"xmlns:ttm", "http://www.w3.org/ns/ttml#metadata"},
	{"xmlns:ry", "http://namespace.itunes.apple.com/itt/ttml-extension#ruby"},
	{"xmlns:itts", "http://www.w3.org/ns/ttml/profile/imsc1#styling"},
	{"xmlns:tt", "http://www.w3.org/ns/ttml"},
	{"xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance"},
}

type ittDocument struct {
	XMLName xml.Name   `xml:"tt"`
	Attrs   []xml.Attr `xml:",any,attr"`
	Head    ittHead    `xml:"head"`
	Body    ittBody    `xml:"body"`
}

type ittHead struct {
	Style  ittStyle  `xml:"styling>style"`
	Region ittRegion `xml:"layout>region"`
}

type ittStyle struct {
	ID         string `xml:"xml:id,attr"`
	Color      string `xml:"tts:color,attr"`
	FontFamily string `xml:"tts:fontFamily,attr"`
	FontSize   string `xml:"tts:fontSize,attr"`
	FontStyle  string `xml:"tts:fontStyle,attr"`
	FontWeight string `xml:"tts:fontWeight,attr"`
}

type ittRegion struct {
	ID           string `xml:"xml:id,attr"`
	DisplayAlign string `xml:"tts:displayAlign,attr"`
	Extent       string `xml:"tts:extent,attr"`
	Origin       string `xml:"tts:origin,attr"`
	WritingMode  string `xml:"tts:writingMode,attr"`
}

type ittBody struct {
	Region     string         `xml:"region,attr"`
	Style      string         `xml:"style,attr"`
	Paragraphs []ittParagraph `xml:"div>p"`
}

type ittParagraph struct {
	Begin   string `xml:"begin,attr"`
	End     string `xml:"end,attr"`
	Content string `xml:",innerxml"`
}

// RenderITT renders cues as an ITT document. Every cue must carry
// timecodes computed at opts.FrameRate; otherwise nothing is rendered and
// timeline.ErrNoTimecodes is returned.
func RenderITT(cues iter.Seq[timeline.Cue], opts ITTOptions) (string, error) {
	var paragraphs []ittParagraph
	index := 0
	for cue := range cues {
		index++
		if cue.Timecodes == nil {
			return "", fmt.Errorf("cue %d: %w", index, timeline.ErrNoTimecodes)
		}
		content, err := ittContent(cue, opts.HighlightColor)
		if err != nil {
			return "", fmt.Errorf("cue %d: %w", index, err)
		}
		paragraphs = append(paragraphs, ittParagraph{
			Begin:   cue.Timecodes.Start.String(),
			End:     cue.Timecodes.End.String(),
			Content: content,
		})
	}

	doc := ittDocument{
		Attrs: ittRootAttrs(opts),
		Head: ittHead{
			Style: ittStyle{
				ID:         opts.Style.ID,
				Color:      opts.Style.Color,
				FontFamily: opts.Style.FontFamily,
				FontSize:   opts.Style.FontSize,
				FontStyle:  opts.Style.FontStyle,
				FontWeight: opts.Style.FontWeight,
			},
			Region: ittRegion{
				ID:           opts.Region.ID,
				DisplayAlign: opts.Region.DisplayAlign,
				Extent:       opts.Region.Extent,
				Origin:       opts.Region.Origin,
				WritingMode:  opts.Region.WritingMode,
			},
		},
		Body: ittBody{
			Region:     opts.Region.ID,
			Style:      opts.Style.ID,
			Paragraphs: paragraphs,
		},
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal itt document: %w", err)
	}
	return xml.Header + string(out) + "\n", nil
}

func ittRootAttrs(opts ITTOptions) []xml.Attr {
	attrs := make([]xml.Attr, 0, len(ittNamespaces)+6)
	for _, ns := range ittNamespaces {
		attrs = append(attrs, xml.Attr{Name: xml.Name{Local: ns[0]}, Value: ns[1]})
	}
	params := [][2]string{
		{"xml:lang", opts.Language},
		{"ttp:dropMode", opts.DropMode},
		{"ttp:frameRate", strconv.Itoa(opts.FrameRate)},
		{"ttp:frameRateMultiplier", opts.FrameRateMultiplier},
		{"ttp:timeBase", "smpte"},
	}
	for _, p := range params {
		attrs = append(attrs, xml.Attr{Name: xml.Name{Local: p[0]}, Value: p[1]})
	}
	return attrs
}

// ittContent renders cue text as escaped XML with highlighted words in
// colored spans.
func ittContent(cue timeline.Cue, color string) (string, error) {
	if color == "" {
		color = DefaultHighlightColor
	}

	var buf bytes.Buffer
	for i, sp := range cue.Spans {
		if i > 0 {
			buf.WriteByte(' ')
		}
		if !sp.Highlighted {
			if err := xml.EscapeText(&buf, []byte(sp.Text)); err != nil {
				return "", err
			}
			continue
		}
		fmt.Fprintf(&buf, `<span tts:color="%s">`, escapeAttr(color))
		if err := xml.EscapeText(&buf, []byte(sp.Text)); err != nil {
			return "", err
		}
		buf.WriteString("</span>")
	}
	return strings.TrimSpace(buf.String()), nil
}

func escapeAttr(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
