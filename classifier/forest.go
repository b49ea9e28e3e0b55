package classifier

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/montanaflynn/stats"

	"loan-predictor/domain"
)

const leafChild = -1

// Artifact is the on-disk form of a trained tree ensemble. Each tree is a
// flat node array rooted at index 0; a node whose children are both -1 is a
// leaf and carries per-class weights in Value.
type Artifact struct {
	Version  string   `json:"version"`
	Features []string `json:"features"`
	Classes  []int    `json:"classes"`
	Trees    []Tree   `json:"trees"`
}

type Tree struct {
	Nodes []Node `json:"nodes"`
}

type Node struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Value     []float64 `json:"value,omitempty"`
}

func (n Node) isLeaf() bool {
	return n.Left == leafChild && n.Right == leafChild
}

// Forest is a random forest evaluated in process. It is immutable once
// loaded and safe for concurrent use.
type Forest struct {
	artifact Artifact
}

// LoadForest reads and validates a model artifact.
func LoadForest(path string) (*Forest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}

	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode model artifact %s: %w", path, err)
	}

	return NewForest(a)
}

func NewForest(a Artifact) (*Forest, error) {
	if err := validateArtifact(a); err != nil {
		return nil, fmt.Errorf("invalid model artifact: %w", err)
	}
	if a.Version == "" {
		a.Version = "unversioned"
	}
	return &Forest{artifact: a}, nil
}

func validateArtifact(a Artifact) error {
	if len(a.Features) != len(domain.FeatureNames) {
		return fmt.Errorf("expected %d features, artifact has %d", len(domain.FeatureNames), len(a.Features))
	}
	for i, name := range domain.FeatureNames {
		if a.Features[i] != name {
			return fmt.Errorf("feature %d is %q, expected %q", i, a.Features[i], name)
		}
	}

	if len(a.Classes) != 2 {
		return fmt.Errorf("expected 2 classes, artifact has %d", len(a.Classes))
	}
	seen := map[int]bool{}
	for _, c := range a.Classes {
		if c != int(domain.LabelApproved) && c != int(domain.LabelRejected) {
			return fmt.Errorf("unknown class label %d", c)
		}
		seen[c] = true
	}
	if len(seen) != 2 {
		return fmt.Errorf("duplicate class labels %v", a.Classes)
	}

	if len(a.Trees) == 0 {
		return fmt.Errorf("no trees")
	}
	for t, tree := range a.Trees {
		if err := validateTree(tree, len(a.Features), len(a.Classes)); err != nil {
			return fmt.Errorf("tree %d: %w", t, err)
		}
	}
	return nil
}

func validateTree(tree Tree, features, classes int) error {
	if len(tree.Nodes) == 0 {
		return fmt.Errorf("no nodes")
	}
	for i, n := range tree.Nodes {
		if n.isLeaf() {
			if len(n.Value) != classes {
				return fmt.Errorf("leaf %d has %d weights, expected %d", i, len(n.Value), classes)
			}
			sum := 0.0
			for _, w := range n.Value {
				if w < 0 {
					return fmt.Errorf("leaf %d has negative weight", i)
				}
				sum += w
			}
			if sum <= 0 {
				return fmt.Errorf("leaf %d has zero total weight", i)
			}
			continue
		}

		if n.Feature < 0 || n.Feature >= features {
			return fmt.Errorf("node %d splits on unknown feature %d", i, n.Feature)
		}
		// children after their parent means every walk terminates
		for _, child := range []int{n.Left, n.Right} {
			if child <= i || child >= len(tree.Nodes) {
				return fmt.Errorf("node %d has invalid child %d", i, child)
			}
		}
	}
	return nil
}

func (f *Forest) Version() string {
	return f.artifact.Version
}

// Predict averages the class distributions of every tree's leaf and returns
// the most probable class. Ties resolve to approval.
func (f *Forest) Predict(ctx context.Context, features domain.Features) (domain.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return domain.Prediction{}, err
	}
	if len(features) != len(f.artifact.Features) {
		return domain.Prediction{}, fmt.Errorf("expected %d features, got %d", len(f.artifact.Features), len(features))
	}

	perClass := make([][]float64, len(f.artifact.Classes))
	for _, tree := range f.artifact.Trees {
		leaf := tree.leaf(features)
		total := 0.0
		for _, w := range leaf.Value {
			total += w
		}
		for c, w := range leaf.Value {
			perClass[c] = append(perClass[c], w/total)
		}
	}

	best, bestProb := -1, -1.0
	for c, probs := range perClass {
		p, err := stats.Mean(probs)
		if err != nil {
			return domain.Prediction{}, fmt.Errorf("aggregate votes: %w", err)
		}
		label := f.artifact.Classes[c]
		if p > bestProb || (p == bestProb && label < f.artifact.Classes[best]) {
			best, bestProb = c, p
		}
	}

	return domain.Prediction{
		Label:        domain.Label(f.artifact.Classes[best]),
		Confidence:   bestProb,
		ModelVersion: f.artifact.Version,
	}, nil
}

func (t Tree) leaf(x domain.Features) Node {
	i := 0
	for {
		n := t.Nodes[i]
		if n.isLeaf() {
			return n
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// Summary describes a loaded forest.
type Summary struct {
	Version      string         `json:"version"`
	Trees        int            `json:"trees"`
	Nodes        int            `json:"nodes"`
	MaxDepth     int            `json:"max_depth"`
	FeatureSplit map[string]int `json:"feature_splits"`
}

func (f *Forest) Summary() Summary {
	s := Summary{
		Version:      f.artifact.Version,
		Trees:        len(f.artifact.Trees),
		FeatureSplit: map[string]int{},
	}
	for _, tree := range f.artifact.Trees {
		s.Nodes += len(tree.Nodes)
		if d := tree.depth(0); d > s.MaxDepth {
			s.MaxDepth = d
		}
		for _, n := range tree.Nodes {
			if !n.isLeaf() {
				s.FeatureSplit[f.artifact.Features[n.Feature]]++
			}
		}
	}
	return s
}

func (t Tree) depth(i int) int {
	n := t.Nodes[i]
	if n.isLeaf() {
		return 0
	}
	return 1 + max(t.depth(n.Left), t.depth(n.Right))
}
