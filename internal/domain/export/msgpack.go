package export

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/okian/pldash/internal/domain/aggregate"
	"github.com/okian/pldash/internal/domain/model"
)

// WriteMsgpack encodes the scored rows of view as a MessagePack array using
// the JSON field names.
func WriteMsgpack(w io.Writer, view aggregate.View) error {
	enc := msgpack.NewEncoder(w)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(view.Rows); err != nil {
		return fmt.Errorf("encode msgpack: %w", err)
	}
	return nil
}

// ReadMsgpack decodes rows written by WriteMsgpack.
func ReadMsgpack(r io.Reader) ([]model.ScoredTeamRow, error) {
	dec := msgpack.NewDecoder(r)
	dec.SetCustomStructTag("json")

	var rows []model.ScoredTeamRow
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode msgpack: %w", err)
	}
	return rows, nil
}
