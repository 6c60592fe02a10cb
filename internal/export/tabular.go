package export

import (
	"bytes"

	jsoniter "github.com/json-iterator/go"

	"partyrecords/internal/ingest"
	"partyrecords/internal/record"
)

var indented = jsoniter.Config{
	EscapeHTML:    false,
	SortMapKeys:   true,
	IndentionStep: 2,
}.Froze()

// Tabular renders the transposed table of one minigame:
// {minigame: {column: {player: value}}}. Columns and players keep table order
// and missing cells are written as null.
func Tabular(result *ingest.Result) ([]byte, error) {
	var buf bytes.Buffer
	stream := indented.BorrowStream(&buf)
	defer indented.ReturnStream(stream)

	stream.WriteObjectStart()
	stream.WriteObjectField(result.Minigame)
	writeColumns(stream, result.Table, result.OmitSum)
	stream.WriteObjectEnd()
	stream.WriteRaw("\n")

	if err := stream.Flush(); err != nil {
		return nil, err
	}
	if stream.Error != nil {
		return nil, stream.Error
	}
	return buf.Bytes(), nil
}

func writeColumns(stream *jsoniter.Stream, table *record.Table, omitSum bool) {
	stream.WriteObjectStart()
	if table == nil {
		stream.WriteObjectEnd()
		return
	}

	first := true
	players := table.Players()
	for _, col := range table.Columns() {
		if omitSum && col == record.SumColumn {
			continue
		}
		if !first {
			stream.WriteMore()
		}
		first = false

		stream.WriteObjectField(col)
		stream.WriteObjectStart()
		for i, player := range players {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteObjectField(player)
			if v := table.Get(player, col); v.Valid {
				stream.WriteFloat64(v.V)
			} else {
				stream.WriteNil()
			}
		}
		stream.WriteObjectEnd()
	}
	stream.WriteObjectEnd()
}
