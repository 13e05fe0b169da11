package scene

import (
	"math"
	"testing"

	"github.com/akmonengine/helm/actor"
	"github.com/akmonengine/helm/steer"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// Graph is what steer.Follow resolves targets with
var _ steer.NodeLookup = (*Graph)(nil)

func vec3AlmostEqual(a, b mgl64.Vec3, epsilon float64) bool {
	return math.Abs(a.X()-b.X()) < epsilon &&
		math.Abs(a.Y()-b.Y()) < epsilon &&
		math.Abs(a.Z()-b.Z()) < epsilon
}

func buildGraph(t *testing.T) *Graph {
	t.Helper()
	g := NewGraph()

	level := NewNode("Level")
	level.Local = actor.Transform{
		Position: mgl64.Vec3{10, 0, 0},
		Rotation: mgl64.QuatRotate(math.Pi/2, actor.AxisUp),
	}
	target := NewNode("Target")
	target.Local.Position = mgl64.Vec3{0, 0, -2}

	if err := g.Root.AddChild(level); err != nil {
		t.Fatalf("AddChild(Level) error = %v", err)
	}
	if err := level.AddChild(target); err != nil {
		t.Fatalf("AddChild(Target) error = %v", err)
	}
	return g
}

func TestGraph_Lookup(t *testing.T) {
	g := buildGraph(t)

	tests := []struct {
		path string
		want string
	}{
		{"Level", "Level"},
		{"Level/Target", "Target"},
		{"/Level/Target/", "Target"},
		{"Level/Target/..", "Level"},
		{"./Level", "Level"},
		{"", "root"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			node, err := g.Lookup(tt.path)
			if err != nil {
				t.Fatalf("Lookup(%q) error = %v", tt.path, err)
			}
			if node.Name != tt.want {
				t.Errorf("Lookup(%q) = %q, want %q", tt.path, node.Name, tt.want)
			}
		})
	}
}

func TestGraph_Lookup_NotFound(t *testing.T) {
	g := buildGraph(t)

	for _, path := range []string{"Missing", "Level/Missing", ".."} {
		if _, err := g.Lookup(path); !errors.Is(err, ErrNodeNotFound) {
			t.Errorf("Lookup(%q) error = %v, want ErrNodeNotFound", path, err)
		}
	}
}

func TestGraph_Position_ComposesParents(t *testing.T) {
	g := buildGraph(t)

	// a quarter turn about Y takes (0,0,-2) to (-2,0,0)
	pos, err := g.Position("Level/Target")
	if err != nil {
		t.Fatalf("Position() error = %v", err)
	}
	if !vec3AlmostEqual(pos, mgl64.Vec3{8, 0, 0}, 1e-12) {
		t.Errorf("Position() = %v, want (8, 0, 0)", pos)
	}
}

func TestNode_BodyDrivesTransform(t *testing.T) {
	g := NewGraph()
	body := actor.NewRigidBody(actor.Transform{Position: mgl64.Vec3{1, 2, 3}}, actor.BodyTypeKinematic, 1, &actor.Sphere{Radius: 1})
	node := NewNode("Player")
	node.Body = body
	if err := g.Root.AddChild(node); err != nil {
		t.Fatalf("AddChild() error = %v", err)
	}

	if err := body.SetTransform(actor.Transform{Position: mgl64.Vec3{4, 5, 6}}); err != nil {
		t.Fatalf("SetTransform() error = %v", err)
	}

	pos, err := g.Position("Player")
	if err != nil {
		t.Fatalf("Position() error = %v", err)
	}
	if pos != (mgl64.Vec3{4, 5, 6}) {
		t.Errorf("Position() = %v, want the body position", pos)
	}
}

func TestNode_AddChild(t *testing.T) {
	root := NewNode("root")
	a := NewNode("A")
	if err := root.AddChild(a); err != nil {
		t.Fatalf("AddChild() error = %v", err)
	}

	if err := root.AddChild(NewNode("A")); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("duplicate AddChild() error = %v, want ErrDuplicateName", err)
	}
	for _, name := range []string{"", "a/b"} {
		if err := root.AddChild(NewNode(name)); !errors.Is(err, ErrInvalidName) {
			t.Errorf("AddChild(%q) error = %v, want ErrInvalidName", name, err)
		}
	}

	other := NewNode("other")
	if err := other.AddChild(a); err != nil {
		t.Fatalf("reparent error = %v", err)
	}
	if a.Parent() != other || root.Child("A") != nil || len(root.Children()) != 0 {
		t.Errorf("reparent left A under root")
	}
}
