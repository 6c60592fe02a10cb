package parser

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/dimchansky/utfbom"
	"golang.org/x/text/encoding/charmap"
)

// tooltipArtefact is injected by the game client when records are copied from
// a hover tooltip.
const tooltipArtefact = "TooltipEvent, "

// Export is one player's raw record dump.
type Export struct {
	Player     string
	SourceFile string
	Text       string
	// Recoded is set when the file was not valid UTF-8 and was decoded as
	// Windows-1252.
	Recoded bool
}

func ReadExport(path string) (*Export, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	export, err := ParseExport(data)
	if err != nil {
		return nil, fmt.Errorf("reading export %s: %w", path, err)
	}
	export.SourceFile = path
	export.Player = PlayerFromPath(path)
	return export, nil
}

func ParseExport(content []byte) (*Export, error) {
	stripped, err := io.ReadAll(utfbom.SkipOnly(bytes.NewReader(content)))
	if err != nil {
		return nil, err
	}

	export := &Export{}
	if !utf8.Valid(stripped) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(stripped)
		if err != nil {
			return nil, fmt.Errorf("decoding windows-1252: %w", err)
		}
		stripped = decoded
		export.Recoded = true
	}

	text := strings.ReplaceAll(string(stripped), "\r\n", "\n")
	export.Text = strings.ReplaceAll(text, tooltipArtefact, "")
	return export, nil
}

// PlayerFromPath derives the player identity from an export file name.
func PlayerFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
