package arface

import (
	"github.com/gogpu/arface/model"
	"github.com/gogpu/arface/texture"
)

// FaceNode is the scene entity bound to exactly one tracked face.
//
// It carries a model instance (shadow casting disabled, shadow receiving
// enabled, so the overlay sits naturally in the camera image) and the
// texture applied to the face mesh. Nodes are created by Session when a
// face first reaches TRACKING with both resources ready, and removed when
// the face pauses or stops; they are never shared between faces.
type FaceNode struct {
	face     TrackedFace
	instance *model.Instance
	mesh     *texture.Texture
	pose     Pose
}

// NewFaceNode binds the loaded resources to one tracked face.
// Session calls this once per face; hosts building custom pipelines may
// call it directly with a ready model and texture.
func NewFaceNode(face TrackedFace, m *model.Model, tex *texture.Texture) *FaceNode {
	inst := m.NewInstance()
	inst.SetShadowCaster(false)
	inst.SetShadowReceiver(true)

	return &FaceNode{
		face:     face,
		instance: inst,
		mesh:     tex,
		pose:     face.CenterPose(),
	}
}

// Face returns the tracked face the node is bound to.
func (n *FaceNode) Face() TrackedFace { return n.face }

// Instance returns the node's model placement.
func (n *FaceNode) Instance() *model.Instance { return n.instance }

// MeshTexture returns the texture applied to the face mesh.
func (n *FaceNode) MeshTexture() *texture.Texture { return n.mesh }

// Pose returns the face pose captured at the last Refresh (or creation).
func (n *FaceNode) Pose() Pose { return n.pose }

// Refresh re-reads the face's current pose. Hosts call this once per frame
// from the render loop; it is not synchronized against concurrent readers.
func (n *FaceNode) Refresh() {
	n.pose = n.face.CenterPose()
}
