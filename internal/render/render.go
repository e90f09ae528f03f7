// Package render writes device listings in the formats the CLI offers.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"audiodev/internal/audio"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
)

// Listing formats.
const (
	FormatTable = "table"
	FormatPlain = "plain"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

var Formats = []string{FormatTable, FormatPlain, FormatJSON, FormatYAML}

// Section is one titled device listing, e.g. the input devices.
type Section struct {
	Direction string
	Devices   []audio.DeviceDescriptor
}

// Renderer writes sections to w in one format.
type Renderer struct {
	w        io.Writer
	format   string
	terminal bool
}

// NewRenderer returns a renderer for w. Table output uses the rounded style
// when w is a terminal.
func NewRenderer(w io.Writer, format string) *Renderer {
	return &Renderer{w: w, format: format, terminal: isTerminal(w)}
}

// Render writes the sections. A single section is encoded as a bare list in
// JSON and YAML; several sections become a map keyed by direction.
func (r *Renderer) Render(sections ...Section) error {
	switch r.format {
	case FormatTable:
		return r.table(sections)
	case FormatPlain:
		return r.plain(sections)
	case FormatJSON:
		enc := json.NewEncoder(r.w)
		enc.SetIndent("", "  ")
		return enc.Encode(structured(sections))
	case FormatYAML:
		enc := yaml.NewEncoder(r.w)
		enc.SetIndent(2)
		if err := enc.Encode(structured(sections)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", r.format)
	}
}

func structured(sections []Section) interface{} {
	if len(sections) == 1 {
		return nonNil(sections[0].Devices)
	}
	out := make(map[string][]audio.DeviceDescriptor, len(sections))
	for _, s := range sections {
		out[s.Direction] = nonNil(s.Devices)
	}
	return out
}

func nonNil(devices []audio.DeviceDescriptor) []audio.DeviceDescriptor {
	if devices == nil {
		return []audio.DeviceDescriptor{}
	}
	return devices
}

func (r *Renderer) table(sections []Section) error {
	for i, s := range sections {
		if i > 0 {
			fmt.Fprintln(r.w)
		}
		if len(s.Devices) == 0 {
			fmt.Fprintln(r.w, emptyMessage(s.Direction))
			continue
		}

		tw := table.NewWriter()
		if r.terminal {
			tw.SetStyle(table.StyleRounded)
		}
		tw.SetTitle(titleCase(s.Direction) + " devices")
		tw.AppendHeader(table.Row{"#", "Name", "Default"})
		for _, d := range s.Devices {
			def := ""
			if d.IsDefault {
				def = "*"
			}
			tw.AppendRow(table.Row{d.Index, d.Name, def})
		}
		tw.SetColumnConfigs([]table.ColumnConfig{
			{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
			{Number: 3, Align: text.AlignCenter, AlignHeader: text.AlignLeft},
		})
		if _, err := fmt.Fprintln(r.w, tw.Render()); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) plain(sections []Section) error {
	for i, s := range sections {
		if len(sections) > 1 {
			if i > 0 {
				fmt.Fprintln(r.w)
			}
			fmt.Fprintf(r.w, "%s devices:\n", titleCase(s.Direction))
		}
		if len(s.Devices) == 0 {
			fmt.Fprintln(r.w, emptyMessage(s.Direction))
			continue
		}
		for _, d := range s.Devices {
			line := fmt.Sprintf("[%s] %s", d.Index, d.Name)
			if d.IsDefault {
				line += " (default)"
			}
			if _, err := fmt.Fprintln(r.w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func emptyMessage(direction string) string {
	return fmt.Sprintf("No %s devices found.", direction)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
