package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/JKelly423/connect-4-reinforced-learning/internal/domain"
	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

const schemaName = "connect4_ply_v1"

// PlyRow is one training sample: the position before a move, the move that
// was played and how the game ended for the player who made it.
//
// Cells holds Rows*Columns values in row-major order, top row first.
// Outcome is 1 for a win, 0 for a draw and -1 for a loss.
// SearchValue is the mover's search score, 0 when the mover did not search.
type PlyRow struct {
	GameID      string  `parquet:"game_id,dict"`
	Ply         int32   `parquet:"ply"`
	Cells       []int32 `parquet:"cells"`
	ToMove      int32   `parquet:"to_move"`
	Column      int32   `parquet:"column"`
	Outcome     float32 `parquet:"outcome"`
	SearchValue int32   `parquet:"search_value"`
	Strategy    string  `parquet:"strategy,dict"`
}

func NewPlyRow(gameID string, ply int, before domain.Board, mover domain.Cell, column int, outcome float64, searchValue int, strategy string) PlyRow {
	grid := before.Grid()
	cells := make([]int32, 0, domain.Rows*domain.Columns)
	for r := 0; r < domain.Rows; r++ {
		for c := 0; c < domain.Columns; c++ {
			cells = append(cells, int32(grid[r][c]))
		}
	}
	return PlyRow{
		GameID:      gameID,
		Ply:         int32(ply),
		Cells:       cells,
		ToMove:      int32(mover),
		Column:      int32(column),
		Outcome:     float32(outcome),
		SearchValue: int32(searchValue),
		Strategy:    strategy,
	}
}

// Board rebuilds the position stored in the row.
func (r PlyRow) Board() (domain.Board, error) {
	if len(r.Cells) != domain.Rows*domain.Columns {
		return domain.Board{}, fmt.Errorf("%w: %d cells", domain.ErrInvalidBoard, len(r.Cells))
	}
	rows := make([][]int, domain.Rows)
	for i := range rows {
		rows[i] = make([]int, domain.Columns)
		for c := range rows[i] {
			rows[i][c] = int(r.Cells[i*domain.Columns+c])
		}
	}
	return domain.BoardFromRows(rows)
}

// WriteBatchAtomic writes rows into outDir/tmp and then moves the file into
// outDir, so readers never see a partial file.
func WriteBatchAtomic(outDir string, rows []PlyRow) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	tmpDir := filepath.Join(outDir, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return "", fmt.Errorf("create tmp dir: %w", err)
	}

	name := fmt.Sprintf("selfplay_%d.parquet", time.Now().UnixNano())
	finalPath := filepath.Join(outDir, name)
	tmpPath := filepath.Join(tmpDir, name+".tmp")
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", schemaName),
	); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("rename parquet: %w", err)
	}
	return finalPath, nil
}

func ReadFile(path string) ([]PlyRow, error) {
	rows, err := parquet.ReadFile[PlyRow](path)
	if err != nil {
		return nil, fmt.Errorf("read parquet %s: %w", path, err)
	}
	return rows, nil
}
