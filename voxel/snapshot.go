package voxel

import (
	"archive/zip"
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"time"

	"github.com/achilleasa/vxgi/log"
)

const (
	snapshotDataFile = "grids.bin"
	snapshotVersion  = 1
)

// Snapshot is a serialized hierarchy together with the state needed to
// interpret it.
type Snapshot struct {
	Hierarchy *Hierarchy
	Space     Space
	Timestamp int
}

type snapshotGrid struct {
	ID   GridID
	Dim  int
	Data []uint32
}

type snapshotData struct {
	Version   int
	Boundary  float32
	Timestamp int
	Grids     []snapshotGrid
}

// Write a zip archive containing the gob-encoded grids of the snapshot.
func WriteSnapshot(w io.Writer, snap *Snapshot) error {
	logger := log.New("snapshot")
	start := time.Now()

	data := snapshotData{
		Version:   snapshotVersion,
		Boundary:  snap.Space.Boundary,
		Timestamp: snap.Timestamp,
	}
	for id := Diffuse1; id < NumGrids; id++ {
		grid := snap.Hierarchy.Grid(id)
		if grid == nil {
			return fmt.Errorf("snapshot: grid %s has been released", id)
		}
		data.Grids = append(data.Grids, snapshotGrid{ID: id, Dim: grid.Dim, Data: grid.Data})
	}

	zw := zip.NewWriter(w)
	f, err := zw.Create(snapshotDataFile)
	if err != nil {
		return err
	}
	if err = gob.NewEncoder(f).Encode(&data); err != nil {
		return fmt.Errorf("snapshot: could not encode grids: %w", err)
	}
	if err = zw.Close(); err != nil {
		return err
	}

	logger.Debugf("wrote %d grids in %d ms", len(data.Grids), time.Since(start).Nanoseconds()/1000000)
	return nil
}

// Read a snapshot previously written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	logger := log.New("snapshot")

	// zip needs an io.ReaderAt; buffer the archive in memory.
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	var data *snapshotData
	for _, f := range zr.File {
		if f.Name != snapshotDataFile {
			logger.Warningf("unknown file %s in snapshot; skipping", f.Name)
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		data = &snapshotData{}
		err = gob.NewDecoder(rc).Decode(data)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("snapshot: failed to decode %s: %w", f.Name, err)
		}
	}

	if data == nil {
		return nil, fmt.Errorf("snapshot: archive does not contain %s", snapshotDataFile)
	}
	if data.Version != snapshotVersion {
		return nil, fmt.Errorf("snapshot: unsupported version %d", data.Version)
	}

	h := &Hierarchy{}
	for _, g := range data.Grids {
		if g.ID >= NumGrids || len(g.Data) != g.Dim*g.Dim*g.Dim {
			return nil, fmt.Errorf("snapshot: malformed grid %s", g.ID)
		}
		h.grids[g.ID] = &Cascade{Dim: g.Dim, Data: g.Data}
	}
	for id := Diffuse1; id < NumGrids; id++ {
		if h.grids[id] == nil {
			return nil, fmt.Errorf("snapshot: missing grid %s", id)
		}
	}

	return &Snapshot{
		Hierarchy: h,
		Space:     Space{Boundary: data.Boundary},
		Timestamp: data.Timestamp,
	}, nil
}
