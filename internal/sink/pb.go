package sink

import (
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protodelim"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// writePB writes one length-delimited google.protobuf.Struct per row, keyed by
// column name. Records carry their own keys, so header is ignored.
func writePB(w io.Writer, t Table, rows [][]string, _ bool) error {
	opts := protodelim.MarshalOptions{
		MarshalOptions: proto.MarshalOptions{Deterministic: true},
	}

	for i, row := range rows {
		fields := make(map[string]interface{}, len(row))
		for j, v := range row {
			fields[t.Columns[j]] = v
		}

		rec, err := structpb.NewStruct(fields)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		if _, err := opts.MarshalTo(w, rec); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}

	return nil
}
