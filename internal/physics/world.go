package physics

import (
	"errors"
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/ByteArena/box2d"
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/arkanoid/internal/entity"
	"github.com/vovakirdan/arkanoid/internal/games/arkanoid"
	"github.com/vovakirdan/arkanoid/internal/level"
)

var (
	// ErrClosed is returned by Step after Close.
	ErrClosed = errors.New("physics: world closed")

	// ErrBadStep is returned for negative or non-finite step durations.
	ErrBadStep = errors.New("physics: invalid step duration")

	// ErrBadLayout is returned by New for layouts that cannot be simulated.
	ErrBadLayout = errors.New("physics: invalid layout")
)

// launchAngle is the ball's initial direction from vertical, in radians.
const launchAngle = 0.2

var _ arkanoid.Physics = (*World)(nil)

// World is a Box2D simulation of one arkanoid playfield: static walls and
// bricks, a kinematic paddle and a dynamic ball. The bottom is open.
// World is not safe for concurrent use.
type World struct {
	world    *box2d.B2World
	opts     Options
	logger   *log.Logger
	contacts *contactLog

	field       level.Bounds
	ballRadius  float64
	speed       float64
	paddleHalf  mgl64.Vec2
	paddleStart mgl64.Vec2

	ball   *box2d.B2Body
	paddle *box2d.B2Body
	bricks map[string]*box2d.B2Body

	attached bool    // Ball rides on the paddle until launched
	accum    float64 // Unsimulated time carried to the next Step
	closed   bool
}

// New builds a world for the layout. The ball starts attached to the paddle.
func New(layout level.Layout, opts Options) (*World, error) {
	switch {
	case layout.Playfield.Width() <= 0 || layout.Playfield.Height() <= 0:
		return nil, fmt.Errorf("%w: empty playfield", ErrBadLayout)
	case layout.Ball.Radius <= 0 || layout.Ball.Speed <= 0:
		return nil, fmt.Errorf("%w: ball radius and speed must be positive", ErrBadLayout)
	case layout.Paddle.Size.X() <= 0 || layout.Paddle.Size.Y() <= 0:
		return nil, fmt.Errorf("%w: paddle must have positive size", ErrBadLayout)
	}

	opts = opts.withDefaults()
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	b2 := box2d.MakeB2World(box2d.MakeB2Vec2(0, 0))
	w := &World{
		world:       &b2,
		opts:        opts,
		logger:      logger,
		contacts:    newContactLog(),
		field:       layout.Playfield,
		ballRadius:  layout.Ball.Radius,
		speed:       layout.Ball.Speed,
		paddleHalf:  layout.Paddle.Size.Mul(0.5),
		paddleStart: layout.Paddle.Start,
		bricks:      make(map[string]*box2d.B2Body, len(layout.Bricks)),
		attached:    true,
	}
	w.world.SetContactListener(w.contacts)

	w.createWalls(layout.WallThickness)
	for _, b := range layout.Bricks {
		name := b.ID().Name()
		w.bricks[name] = w.createBox(box2d.B2BodyType.B2_staticBody, b.Center, b.Size, &bodyTag{kind: kindBrick, name: name})
	}
	w.paddle = w.createBox(box2d.B2BodyType.B2_kinematicBody, layout.Paddle.Start, layout.Paddle.Size,
		&bodyTag{kind: kindPaddle, name: entity.PaddleID.Name()})
	w.ball = w.createBall(layout.Ball.Start)

	logger.Debug("physics world created", "level", layout.LevelID, "bricks", len(w.bricks))
	return w, nil
}

// Factory returns a loop physics factory that builds Box2D worlds.
func Factory(opts Options) arkanoid.PhysicsFactory {
	return func(layout level.Layout) (arkanoid.Physics, error) {
		return New(layout, opts)
	}
}

// createWalls adds the left, right and top walls just outside the playfield.
func (w *World) createWalls(thickness float64) {
	if thickness <= 0 {
		thickness = 1
	}
	f := w.field
	midY := (f.MinY + f.MaxY) / 2
	tall := mgl64.Vec2{thickness, f.Height() + 2*thickness}
	wide := mgl64.Vec2{f.Width() + 2*thickness, thickness}

	tag := &bodyTag{kind: kindWall}
	static := box2d.B2BodyType.B2_staticBody
	w.createBox(static, mgl64.Vec2{f.MinX - thickness/2, midY}, tall, tag)
	w.createBox(static, mgl64.Vec2{f.MaxX + thickness/2, midY}, tall, tag)
	w.createBox(static, mgl64.Vec2{(f.MinX + f.MaxX) / 2, f.MaxY + thickness/2}, wide, tag)
}

func (w *World) createBox(bodyType uint8, center, size mgl64.Vec2, tag *bodyTag) *box2d.B2Body {
	bd := box2d.MakeB2BodyDef()
	bd.Type = bodyType
	bd.Position = toB2(center)
	body := w.world.CreateBody(&bd)

	shape := box2d.MakeB2PolygonShape()
	shape.SetAsBox(size.X()/2, size.Y()/2)

	fd := box2d.MakeB2FixtureDef()
	fd.Shape = &shape
	fd.Density = 1
	fd.Friction = 0
	fd.Restitution = 1
	body.CreateFixtureFromDef(&fd)
	body.SetUserData(tag)
	return body
}

func (w *World) createBall(start mgl64.Vec2) *box2d.B2Body {
	bd := box2d.MakeB2BodyDef()
	bd.Type = box2d.B2BodyType.B2_dynamicBody
	bd.Position = toB2(start)
	bd.Bullet = true
	bd.FixedRotation = true
	body := w.world.CreateBody(&bd)

	shape := box2d.MakeB2CircleShape()
	shape.M_radius = w.ballRadius

	fd := box2d.MakeB2FixtureDef()
	fd.Shape = &shape
	fd.Density = 1
	fd.Friction = 0
	fd.Restitution = 1
	body.CreateFixtureFromDef(&fd)
	body.SetUserData(&bodyTag{kind: kindBall, name: entity.BallID.Name()})
	return body
}

// Step advances the simulation by dt seconds in fixed sub-steps. Frame
// time above MaxFrame is dropped; a remainder shorter than one sub-step
// carries over to the next call.
func (w *World) Step(dt float64) error {
	if w.closed {
		return ErrClosed
	}
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		return fmt.Errorf("%w: %v", ErrBadStep, dt)
	}

	w.accum += math.Min(dt, w.opts.MaxFrame)
	for w.accum >= w.opts.SubStep {
		w.substep()
		w.accum -= w.opts.SubStep
	}
	return nil
}

func (w *World) substep() {
	w.contacts.clear()
	w.world.Step(w.opts.SubStep, w.opts.VelocityIterations, w.opts.PositionIterations)
	w.removeHitBricks()

	// The solver nudges a resting ball out of the paddle skin
	if w.attached {
		w.attachBall()
		return
	}
	if w.contacts.paddle {
		w.deflect()
	}
	w.normalizeSpeed()
}

// removeHitBricks destroys the bricks the ball touched during the last
// solver step, in name order so runs stay reproducible.
func (w *World) removeHitBricks() {
	if len(w.contacts.bricks) == 0 {
		return
	}
	names := make([]string, 0, len(w.contacts.bricks))
	for name := range w.contacts.bricks {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		body, ok := w.bricks[name]
		if !ok {
			continue
		}
		w.world.DestroyBody(body)
		delete(w.bricks, name)
		w.logger.Debug("brick hit", "brick", name, "left", len(w.bricks))
	}
}

// deflect sets the bounce angle from where the ball met the paddle:
// center sends it straight up, the edges at MaxDeflect.
func (w *World) deflect() {
	bp := w.ball.GetPosition()
	pp := w.paddle.GetPosition()
	if bp.Y < pp.Y {
		return
	}
	offset := mgl64.Clamp((bp.X-pp.X)/w.paddleHalf.X(), -1, 1)
	angle := offset * w.opts.MaxDeflect
	w.ball.SetLinearVelocity(box2d.MakeB2Vec2(w.speed*math.Sin(angle), w.speed*math.Cos(angle)))
}

// normalizeSpeed keeps the ball at launch speed with a minimum vertical
// component.
func (w *World) normalizeSpeed() {
	v := w.ball.GetLinearVelocity()
	length := math.Hypot(v.X, v.Y)
	if length < mgl64.Epsilon {
		v, length = box2d.MakeB2Vec2(0, w.speed), w.speed
	}
	vx := v.X / length * w.speed
	vy := v.Y / length * w.speed

	minVy := w.opts.MinVertical * w.speed
	if math.Abs(vy) < minVy {
		vy = math.Copysign(minVy, vy)
		vx = math.Copysign(math.Sqrt(w.speed*w.speed-minVy*minVy), vx)
	}
	w.ball.SetLinearVelocity(box2d.MakeB2Vec2(vx, vy))
}

// attachBall puts the ball on top of the paddle, at rest.
func (w *World) attachBall() {
	pp := w.paddle.GetPosition()
	w.ball.SetTransform(box2d.MakeB2Vec2(pp.X, pp.Y+w.paddleHalf.Y()+w.ballRadius), 0)
	w.ball.SetLinearVelocity(box2d.MakeB2Vec2(0, 0))
}

// Position returns a body's center by entity name.
func (w *World) Position(name string) (mgl64.Vec2, bool) {
	if w.closed {
		return mgl64.Vec2{}, false
	}
	var body *box2d.B2Body
	switch name {
	case entity.BallID.Name():
		body = w.ball
	case entity.PaddleID.Name():
		body = w.paddle
	default:
		body = w.bricks[name]
	}
	if body == nil {
		return mgl64.Vec2{}, false
	}
	return fromB2(body.GetPosition()), true
}

// ResetToInitial returns the paddle to its start and reattaches the ball.
// Bricks are left as they are.
func (w *World) ResetToInitial() {
	if w.closed {
		return
	}
	w.paddle.SetTransform(toB2(w.paddleStart), 0)
	w.paddle.SetLinearVelocity(box2d.MakeB2Vec2(0, 0))
	w.attached = true
	w.attachBall()
	w.accum = 0
	w.contacts.clear()
}

// Launch releases an attached ball. It is a no-op while the ball is in play.
func (w *World) Launch() {
	if w.closed || !w.attached {
		return
	}
	w.attached = false
	w.ball.SetLinearVelocity(box2d.MakeB2Vec2(w.speed*math.Sin(launchAngle), w.speed*math.Cos(launchAngle)))
	w.logger.Debug("ball launched")
}

// MovePaddle shifts the paddle by dx, keeping it inside the walls.
func (w *World) MovePaddle(dx float64) {
	if w.closed {
		return
	}
	pp := w.paddle.GetPosition()
	x := mgl64.Clamp(pp.X+dx, w.field.MinX+w.paddleHalf.X(), w.field.MaxX-w.paddleHalf.X())
	w.paddle.SetTransform(box2d.MakeB2Vec2(x, pp.Y), 0)
	if w.attached {
		w.attachBall()
	}
}

// Attached reports whether the ball is resting on the paddle.
func (w *World) Attached() bool { return w.attached }

// Close releases the world. Step fails with ErrClosed afterwards and all
// bodies are reported absent.
func (w *World) Close() {
	w.closed = true
	w.bricks = nil
}

func toB2(v mgl64.Vec2) box2d.B2Vec2 { return box2d.MakeB2Vec2(v.X(), v.Y()) }

func fromB2(v box2d.B2Vec2) mgl64.Vec2 { return mgl64.Vec2{v.X, v.Y} }
