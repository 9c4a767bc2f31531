package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWalk_PreOrder(t *testing.T) {
	leaf := &TextNode{NodeHeader: NodeHeader{ID: "3", Kind: KindText}}
	inner := &ContainerNode{NodeHeader: NodeHeader{ID: "2", Kind: KindFrame}, Nodes: []SceneNode{leaf}}
	sibling := &ShapeNode{NodeHeader: NodeHeader{ID: "4", Kind: KindRectangle}}
	root := &InstanceNode{NodeHeader: NodeHeader{ID: "1", Kind: KindInstance}, Nodes: []SceneNode{inner, sibling}}

	var visited []string
	Walk(root, func(n SceneNode) bool {
		visited = append(visited, n.Header().ID)
		return true
	})

	assert.Equal(t, []string{"1", "2", "3", "4"}, visited)
}

func TestWalk_SkipChildren(t *testing.T) {
	leaf := &ShapeNode{NodeHeader: NodeHeader{ID: "2", Kind: KindVector}}
	root := &ContainerNode{NodeHeader: NodeHeader{ID: "1", Kind: KindGroup}, Nodes: []SceneNode{leaf}}

	var visited []string
	Walk(root, func(n SceneNode) bool {
		visited = append(visited, n.Header().ID)
		return false
	})

	assert.Equal(t, []string{"1"}, visited)
}

func TestNodeKind_IsContainer(t *testing.T) {
	assert.True(t, KindInstance.IsContainer())
	assert.True(t, KindFrame.IsContainer())
	assert.False(t, KindText.IsContainer())
	assert.False(t, KindEllipse.IsContainer())
}
