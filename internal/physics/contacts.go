package physics

import "github.com/ByteArena/box2d"

// bodyTag is stored as Box2D user data to identify bodies in contacts.
type bodyTag struct {
	kind bodyKind
	name string
}

type bodyKind int

const (
	kindWall bodyKind = iota
	kindBrick
	kindPaddle
	kindBall
)

// contactLog collects ball contacts reported during a solver step. Box2D
// forbids destroying bodies inside callbacks, so hits are applied after
// the step returns.
type contactLog struct {
	bricks map[string]struct{}
	paddle bool
}

func newContactLog() *contactLog {
	return &contactLog{bricks: make(map[string]struct{})}
}

func (c *contactLog) clear() {
	clear(c.bricks)
	c.paddle = false
}

func tagOf(f *box2d.B2Fixture) *bodyTag {
	if f == nil || f.GetBody() == nil {
		return nil
	}
	tag, _ := f.GetBody().GetUserData().(*bodyTag)
	return tag
}

// BeginContact records what the ball touched.
func (c *contactLog) BeginContact(contact box2d.B2ContactInterface) {
	a, b := tagOf(contact.GetFixtureA()), tagOf(contact.GetFixtureB())
	if a == nil || b == nil {
		return
	}
	if b.kind == kindBall {
		a, b = b, a
	}
	if a.kind != kindBall {
		return
	}
	switch b.kind {
	case kindBrick:
		c.bricks[b.name] = struct{}{}
	case kindPaddle:
		c.paddle = true
	}
}

func (c *contactLog) EndContact(contact box2d.B2ContactInterface) {}

func (c *contactLog) PreSolve(contact box2d.B2ContactInterface, oldManifold box2d.B2Manifold) {}

func (c *contactLog) PostSolve(contact box2d.B2ContactInterface, impulse *box2d.B2ContactImpulse) {}
