package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/banshee-data/explore.planner/internal/planning/segment"
	"github.com/banshee-data/explore.planner/internal/timeutil"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"
)

// SnapshotInfo summarises one stored tree.
type SnapshotInfo struct {
	SnapshotID   string    `json:"snapshot_id"`
	Cycle        int       `json:"cycle"`
	CreatedAt    time.Time `json:"created_at"`
	SegmentCount int       `json:"segment_count"` // including the root
	Depth        int       `json:"depth"`
}

// waypointRow is the JSON form of a waypoint inside trajectory_json.
type waypointRow struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
	Yaw    float64 `json:"yaw"`
	TimeNs int64   `json:"t_ns"`
}

// TreeStore provides persistence for expansion tree snapshots.
type TreeStore struct {
	db    *sql.DB
	clock timeutil.Clock
}

// NewTreeStore creates a new TreeStore on a database prepared by Open.
func NewTreeStore(db *sql.DB) *TreeStore {
	return &TreeStore{db: db, clock: timeutil.RealClock{}}
}

// SetClock replaces the clock that stamps created_at_ns. Call before the
// store is shared.
func (s *TreeStore) SetClock(c timeutil.Clock) {
	s.clock = c
}

// SaveSnapshot stores the tree rooted at root as the snapshot of cycle and
// returns the new snapshot ID. The tree is not modified.
func (s *TreeStore) SaveSnapshot(cycle int, root *segment.Segment) (string, error) {
	if root == nil {
		return "", fmt.Errorf("save snapshot: nil root")
	}

	// Pre-order numbering guarantees a parent is stored before its children.
	type flat struct {
		seg    *segment.Segment
		parent int
	}
	var rows []flat
	var number func(seg *segment.Segment, parent int)
	number = func(seg *segment.Segment, parent int) {
		idx := len(rows)
		rows = append(rows, flat{seg: seg, parent: parent})
		for _, c := range seg.Children {
			number(c, idx)
		}
	}
	number(root, -1)

	id := uuid.New().String()
	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO tree_snapshots (snapshot_id, cycle, created_at_ns, segment_count, depth)
		VALUES (?, ?, ?, ?, ?)
	`, id, cycle, s.clock.Now().UnixNano(), len(rows), root.Depth())
	if err != nil {
		return "", fmt.Errorf("insert snapshot: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO tree_segments (snapshot_id, segment_index, parent_index, visited, trajectory_json)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("prepare segment insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range rows {
		traj, err := encodeTrajectory(r.seg.Trajectory)
		if err != nil {
			return "", fmt.Errorf("encode segment %d: %w", i, err)
		}
		var parent sql.NullInt64
		if r.parent >= 0 {
			parent = sql.NullInt64{Int64: int64(r.parent), Valid: true}
		}
		if _, err := stmt.Exec(id, i, parent, r.seg.Visited, traj); err != nil {
			return "", fmt.Errorf("insert segment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit snapshot: %w", err)
	}
	return id, nil
}

// LoadSnapshot rebuilds the tree stored under id. Returns sql.ErrNoRows if
// the snapshot does not exist.
func (s *TreeStore) LoadSnapshot(id string) (*segment.Segment, error) {
	rows, err := s.db.Query(`
		SELECT segment_index, parent_index, visited, trajectory_json
		FROM tree_segments
		WHERE snapshot_id = ?
		ORDER BY segment_index
	`, id)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	defer rows.Close()

	var nodes []*segment.Segment
	for rows.Next() {
		var (
			idx     int
			parent  sql.NullInt64
			visited bool
			traj    string
		)
		if err := rows.Scan(&idx, &parent, &visited, &traj); err != nil {
			return nil, fmt.Errorf("scan segment: %w", err)
		}
		if idx != len(nodes) {
			return nil, fmt.Errorf("snapshot %s: segment index %d out of sequence", id, idx)
		}
		trajectory, err := decodeTrajectory(traj)
		if err != nil {
			return nil, fmt.Errorf("decode segment %d: %w", idx, err)
		}
		seg := &segment.Segment{Trajectory: trajectory, Visited: visited}

		switch {
		case !parent.Valid && idx == 0:
		case parent.Valid && parent.Int64 >= 0 && int(parent.Int64) < idx:
			nodes[parent.Int64].AddChild(seg)
		default:
			return nil, fmt.Errorf("snapshot %s: segment %d has invalid parent", id, idx)
		}
		nodes = append(nodes, seg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate segments: %w", err)
	}
	if len(nodes) == 0 {
		return nil, sql.ErrNoRows
	}
	return nodes[0], nil
}

// ListSnapshots returns every stored snapshot ordered by cycle, then
// creation time.
func (s *TreeStore) ListSnapshots() ([]SnapshotInfo, error) {
	rows, err := s.db.Query(`
		SELECT snapshot_id, cycle, created_at_ns, segment_count, depth
		FROM tree_snapshots
		ORDER BY cycle, created_at_ns
	`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var infos []SnapshotInfo
	for rows.Next() {
		var info SnapshotInfo
		var createdNs int64
		if err := rows.Scan(&info.SnapshotID, &info.Cycle, &createdNs, &info.SegmentCount, &info.Depth); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		info.CreatedAt = time.Unix(0, createdNs)
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// DeleteSnapshot removes a snapshot and its segments.
func (s *TreeStore) DeleteSnapshot(id string) error {
	result, err := s.db.Exec("DELETE FROM tree_snapshots WHERE snapshot_id = ?", id)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete snapshot rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func encodeTrajectory(trajectory []segment.Waypoint) (string, error) {
	out := make([]waypointRow, len(trajectory))
	for i, w := range trajectory {
		out[i] = waypointRow{
			X: w.Position.X, Y: w.Position.Y, Z: w.Position.Z,
			Yaw:    w.Yaw,
			TimeNs: w.TimeFromStartNs,
		}
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeTrajectory(s string) ([]segment.Waypoint, error) {
	var in []waypointRow
	if err := json.Unmarshal([]byte(s), &in); err != nil {
		return nil, err
	}
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]segment.Waypoint, len(in))
	for i, w := range in {
		out[i] = segment.Waypoint{
			Position:        r3.Vec{X: w.X, Y: w.Y, Z: w.Z},
			Yaw:             w.Yaw,
			TimeFromStartNs: w.TimeNs,
		}
	}
	return out, nil
}
