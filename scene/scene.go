// Package scene is a minimal node tree used to resolve targets by path.
package scene

import (
	"strings"

	"github.com/akmonengine/helm/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

var (
	ErrNodeNotFound  = errors.New("node not found")
	ErrDuplicateName = errors.New("a sibling already has this name")
	ErrInvalidName   = errors.New("node names must be non-empty and contain no '/'")
)

// Node is a named transform in a tree. Local is relative to the parent.
type Node struct {
	Name  string
	Local actor.Transform
	// Body, when set, drives the node: its world transform is the body's.
	Body *actor.RigidBody

	parent   *Node
	children []*Node
}

// NewNode creates a detached node with an identity transform.
func NewNode(name string) *Node {
	return &Node{Name: name, Local: actor.NewTransform()}
}

func (n *Node) Parent() *Node {
	return n.parent
}

func (n *Node) Children() []*Node {
	return n.children
}

// AddChild attaches child under n, detaching it from any previous parent.
func (n *Node) AddChild(child *Node) error {
	if child.Name == "" || strings.Contains(child.Name, "/") {
		return errors.Wrapf(ErrInvalidName, "%q", child.Name)
	}
	if n.Child(child.Name) != nil {
		return errors.Wrapf(ErrDuplicateName, "%q under %q", child.Name, n.Name)
	}

	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = n
	n.children = append(n.children, child)
	return nil
}

func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// Child returns the direct child with the given name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// WorldTransform composes the local transforms from the root down.
func (n *Node) WorldTransform() actor.Transform {
	if n.Body != nil {
		return n.Body.Transform()
	}

	local := n.Local
	if local.Rotation.Len() == 0 {
		local.Rotation = mgl64.QuatIdent()
	}
	if n.parent == nil {
		return withInverse(local)
	}

	parent := n.parent.WorldTransform()
	return withInverse(actor.Transform{
		Position: parent.Position.Add(parent.Rotation.Rotate(local.Position)),
		Rotation: parent.Rotation.Mul(local.Rotation).Normalize(),
	})
}

func withInverse(t actor.Transform) actor.Transform {
	t.Rotation = t.Rotation.Normalize()
	t.InverseRotation = t.Rotation.Inverse()
	return t
}

// Graph is a scene rooted at a single node.
type Graph struct {
	Root *Node
}

func NewGraph() *Graph {
	return &Graph{Root: NewNode("root")}
}

// Lookup resolves a slash separated path from the root, e.g. "Level/Target".
// ".." walks up one level.
func (g *Graph) Lookup(path string) (*Node, error) {
	node := g.Root
	for _, part := range strings.Split(strings.Trim(path, "/"), "/") {
		switch part {
		case "", ".":
			continue
		case "..":
			if node.parent == nil {
				return nil, errors.Wrapf(ErrNodeNotFound, "%q goes above the root", path)
			}
			node = node.parent
		default:
			child := node.Child(part)
			if child == nil {
				return nil, errors.Wrapf(ErrNodeNotFound, "%q", path)
			}
			node = child
		}
	}
	return node, nil
}

// Position returns the world position of the node at path.
func (g *Graph) Position(path string) (mgl64.Vec3, error) {
	node, err := g.Lookup(path)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return node.WorldTransform().Position, nil
}
