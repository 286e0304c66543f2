package repositories

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// EncodeBoardSnapshot compresses a flat 81-element grid for storage.
func EncodeBoardSnapshot(grid []int) ([]byte, error) {
	b, err := json.Marshal(grid)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal board snapshot: %v", err)
	}

	compressed := bytes.NewBuffer(nil)
	compWriter, err := zstd.NewWriter(compressed, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd writer: %v", err)
	}
	if _, err := compWriter.Write(b); err != nil {
		return nil, fmt.Errorf("failed to compress board snapshot: %v", err)
	}
	if err := compWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to close zstd writer: %v", err)
	}

	return compressed.Bytes(), nil
}

// DecodeBoardSnapshot reverses EncodeBoardSnapshot.
func DecodeBoardSnapshot(data []byte) ([]int, error) {
	compReader, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %v", err)
	}
	defer compReader.Close()

	b, err := io.ReadAll(compReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read board snapshot: %v", err)
	}

	var grid []int
	if err := json.Unmarshal(b, &grid); err != nil {
		return nil, fmt.Errorf("failed to unmarshal board snapshot: %v", err)
	}

	return grid, nil
}
