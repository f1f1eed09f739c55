package export

import (
	"strings"
	"testing"

	"github.com/san-kum/chainsim/internal/dynamo"
)

func TestRunToSVG(t *testing.T) {
	states := []dynamo.State{
		{0, 0, 0, 1, -1, 0, 0, 0, 0, 3, -1, 0},
		{0, 0, 0, 0.5, -1, 0, 2, 0, 0, 2.5, -1, 0},
	}

	svg, err := RunToSVG(states, 2, 200, 100)
	if err != nil {
		t.Fatalf("svg: %v", err)
	}
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Error("expected a complete svg document")
	}
	if got := strings.Count(svg, "<polyline"); got != 2 {
		t.Errorf("expected 2 chain poses, got %d", got)
	}
	if got := strings.Count(svg, "<circle"); got != 4 {
		t.Errorf("expected 4 nodes, got %d", got)
	}
}

func TestRunToSVG_Invalid(t *testing.T) {
	if _, err := RunToSVG([]dynamo.State{{0, 0, 0}}, 1, 10, 10); err == nil {
		t.Error("expected error for a single state")
	}
	states := []dynamo.State{{0, 0, 0, 1}, {0, 0, 0, 1}}
	if _, err := RunToSVG(states, 1, 10, 10); err == nil {
		t.Error("expected error for a ragged state")
	}
}
