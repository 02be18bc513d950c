package frames

import (
	"errors"
	"fmt"

	"motionpicture/internal/services"
)

// ErrSnapshotNotFound reports a snapshot frame the movie does not provide.
var ErrSnapshotNotFound = errors.New("snapshot frame not available")

// Selection narrows the frame sequence. Empty bounds default to the
// sequence extremes; Every is the stride over the bounded sequence.
type Selection struct {
	Min   string
	Max   string
	Every int
}

// Select filters ids to [Min, Max] and keeps every Every-th survivor, in input
// order. The input is not modified. An empty result is not an error here.
func Select(ids []ID, sel Selection) ([]ID, error) {
	if sel.Every < 1 {
		return nil, services.Wrap(services.ErrConfiguration, "frames", "select",
			fmt.Sprintf("frames every must be positive, got %d", sel.Every), nil)
	}
	if err := checkHomogeneous("frames", ids); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "frames", "select", "", err)
	}
	if len(ids) == 0 {
		return []ID{}, nil
	}

	lo, hi := bounds(ids)
	kind := ids[0].Kind()
	if sel.Min != "" {
		v, err := Coerce(sel.Min, kind)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "frames", "min", "", err)
		}
		lo = v
	}
	if sel.Max != "" {
		v, err := Coerce(sel.Max, kind)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "frames", "max", "", err)
		}
		hi = v
	}

	bounded := make([]ID, 0, len(ids))
	for _, id := range ids {
		if id.Compare(lo) >= 0 && id.Compare(hi) <= 0 {
			bounded = append(bounded, id)
		}
	}

	selected := make([]ID, 0, (len(bounded)+sel.Every-1)/sel.Every)
	for i := 0; i < len(bounded); i += sel.Every {
		selected = append(selected, bounded[i])
	}
	return selected, nil
}

// Snapshot resolves a single frame to render on its own.
func Snapshot(ids []ID, value string) (ID, error) {
	if err := checkHomogeneous("frames", ids); err != nil {
		return ID{}, services.Wrap(services.ErrConfiguration, "frames", "snapshot", "", err)
	}
	if len(ids) == 0 {
		return ID{}, services.Wrap(services.ErrConfiguration, "frames", "snapshot", "movie has no frames", nil)
	}
	want, err := Coerce(value, ids[0].Kind())
	if err != nil {
		return ID{}, services.Wrap(services.ErrConfiguration, "frames", "snapshot", "", err)
	}
	for _, id := range ids {
		if id.Compare(want) == 0 {
			return id, nil
		}
	}
	return ID{}, services.Wrap(services.ErrConfiguration, "frames", "snapshot",
		fmt.Sprintf("frame %s not available", want), ErrSnapshotNotFound)
}

func bounds(ids []ID) (ID, ID) {
	lo, hi := ids[0], ids[0]
	for _, id := range ids[1:] {
		if id.Compare(lo) < 0 {
			lo = id
		}
		if id.Compare(hi) > 0 {
			hi = id
		}
	}
	return lo, hi
}
