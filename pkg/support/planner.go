// Package support generates SLA support trees: pinheads seated on user
// anchor points, vertical pillars down to the build plate, and slanted
// bridges that tie neighboring pillars together. The planner is a
// cooperative nine-state pipeline driven by an external Controller; it
// suspends only at state boundaries.
package support

import (
	"math"
	"sort"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"go.uber.org/zap"

	"github.com/chazu/stilts/pkg/cluster"
	"github.com/chazu/stilts/pkg/mesh"
	"github.com/chazu/stilts/pkg/spatial"
)

// DedupDistance is the absolute 3D radius under which two anchor points
// collapse into one.
const DedupDistance = 0.1

// rayOffset lifts a clearance ray off the surface it starts from so the
// owning triangle does not shadow it.
const rayOffset = 0.1

// maxClusterHeads caps how many ground heads may share one centroid
// pillar.
const maxClusterHeads = 4

type step int

const (
	stepBegin step = iota
	stepFilter
	stepPinheads
	stepClassify
	stepRoutingGround
	stepRoutingNonground
	stepHeadless
	stepDone
	stepHalt
	stepAbort
	numSteps
)

var stepLabels = [numSteps]string{
	"",
	"Filtering",
	"Generate pinheads",
	"Classification",
	"Routing to ground",
	"Routing supports to model surface",
	"Processing small holes",
	"Done",
	"Halt",
	"Abort",
}

var stepPercent = [numSteps]int{0, 10, 30, 50, 60, 70, 80, 100, 0, 0}

// planContext is the run-scoped workspace shared by the pipeline states.
// Each state reads the fields earlier states filled in; nothing outside a
// single run ever touches it.
type planContext struct {
	cfg    Config
	object *mesh.Fragment
	points []v3.Vec

	filteredPoints    []v3.Vec
	filteredNormals   []v3.Vec // aligned with headPositions
	headPositions     []v3.Vec
	headlessPositions []v3.Vec

	headHeights    []float64 // distance to the model below, per head
	groundHeads    []int     // head indices whose down ray escapes
	airborneHeads  []int     // head indices that land on the model
	groundClusters [][]int   // clusters of indices into groundHeads

	centralPillars []int // pillar index of each cluster's shared pillar

	tree *Tree
	log  *zap.Logger
}

func (ctx *planContext) reset() {
	ctx.filteredPoints = nil
	ctx.filteredNormals = nil
	ctx.headPositions = nil
	ctx.headlessPositions = nil
	ctx.headHeights = nil
	ctx.groundHeads = nil
	ctx.airborneHeads = nil
	ctx.groundClusters = nil
	ctx.centralPillars = nil
	ctx.tree = NewTree()
}

// SupportTree generates and owns one support scaffold.
type SupportTree struct {
	tree *Tree
	log  *zap.Logger
}

// New returns a generator logging through log; nil disables logging.
func New(log *zap.Logger) *SupportTree {
	if log == nil {
		log = zap.NewNop()
	}
	return &SupportTree{tree: NewTree(), log: log}
}

// Tree returns the elements of the last Generate run.
func (st *SupportTree) Tree() *Tree {
	return st.tree
}

// Generate plans a support tree for the object mesh and the user-placed
// anchor points. The controller paces the pipeline: every state boundary
// asks it for the next command, so a feeding goroutine can pause, resume,
// stop or reset the run. A nil controller runs to completion. The return
// value reports whether the run was aborted; degenerate input (no
// anchors, unusable configuration) yields a successful run with an empty
// tree.
func (st *SupportTree) Generate(object *mesh.Fragment, anchors []v3.Vec, cfg Config, ctl Controller) bool {
	if ctl == nil {
		ctl = nopController{}
	}
	for _, w := range cfg.Lint() {
		st.log.Warn("support config", zap.String("finding", w))
	}

	ctx := &planContext{
		cfg:    cfg,
		object: object,
		points: anchors,
		tree:   NewTree(),
		log:    st.log,
	}

	program := [numSteps]func(){
		stepBegin:            ctx.reset,
		stepFilter:           func() { filter(ctx) },
		stepPinheads:         func() { pinheads(ctx) },
		stepClassify:         func() { classify(ctx) },
		stepRoutingGround:    func() { routeGround(ctx) },
		stepRoutingNonground: func() {}, // reserved
		stepHeadless:         func() {}, // reserved
		stepDone:             func() {},
		stepHalt:             func() {},
		stepAbort:            func() {},
	}

	pc, pcPrev := stepBegin, stepBegin

	progress := func() {
		cmd := ctl.NextCommand(pc == stepHalt)

		switch cmd {
		case StartResume:
			switch pc {
			case stepBegin:
				pc = stepFilter
			case stepFilter:
				pc = stepPinheads
			case stepPinheads:
				pc = stepClassify
			case stepClassify:
				pc = stepRoutingGround
			case stepRoutingGround:
				pc = stepRoutingNonground
			case stepRoutingNonground:
				pc = stepHeadless
			case stepHeadless:
				pc = stepDone
			case stepHalt:
				pc = pcPrev
			}
			ctl.Status(stepPercent[pc], stepLabels[pc])
		case Pause:
			pcPrev = pc
			pc = stepHalt
			ctl.Status(stepPercent[pc], stepLabels[pc])
		case Stop:
			pc = stepAbort
			ctl.Status(stepPercent[pc], stepLabels[pc])
		case Synch:
			pc = stepBegin
		}
	}

	for pc < stepDone || pc == stepHalt {
		progress()
		program[pc]()
	}

	st.tree = ctx.tree
	return pc == stepAbort
}

// xyDist is the distance between a and b projected to the XY plane.
func xyDist(a, b v3.Vec) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// filter deduplicates the anchor set, computes and corrects surface
// normals, and splits the survivors into head-capable and headless
// anchors.
func filter(ctx *planContext) {
	if len(ctx.points) == 0 || !ctx.cfg.valid() {
		return
	}

	// collapse anchors closer than the dedup radius, keeping the first
	// member of every group
	aliases := cluster.Cluster(ctx.points, func(a, b cluster.Element) bool {
		return a.Pos.Sub(b.Pos).Length() < DedupDistance
	}, 0)

	for _, group := range aliases {
		ctx.filteredPoints = append(ctx.filteredPoints, ctx.points[group[0]])
	}

	nmls := spatial.Normals(ctx.filteredPoints, ctx.object)

	// Not every anchor is a valid seat for a pinhead: the surface may
	// face the wrong way or leave no room for the head. The polar angle
	// is saturated to at least 135 degrees from straight up, so the head
	// never leans more than 45 degrees off straight down.
	w := ctx.cfg.HeadWidth + ctx.cfg.HeadBackRadius + 2*ctx.cfg.HeadFrontRadius
	for i, n := range nmls {
		polar := math.Acos(n.Z)
		azimuth := math.Atan2(n.Y, n.X)

		if polar < math.Pi/2 {
			// surface faces upward; no support can seat here
			continue
		}

		polar = math.Max(polar, 3*math.Pi/4)
		nn := v3.Vec{
			X: math.Cos(azimuth) * math.Sin(polar),
			Y: math.Sin(azimuth) * math.Sin(polar),
			Z: math.Cos(polar),
		}

		hp := ctx.filteredPoints[i]

		// 2*w of clearance: room for this pinhead and one facing it
		t := spatial.RayMeshIntersect(hp.Add(nn.MulScalar(rayOffset)), nn, ctx.object)
		if t > 2*w || math.IsInf(t, 1) {
			ctx.headPositions = append(ctx.headPositions, hp)
			ctx.filteredNormals = append(ctx.filteredNormals, nn)
		} else {
			ctx.headlessPositions = append(ctx.headlessPositions, hp)
		}
	}

	ctx.log.Debug("filtered anchors",
		zap.Int("input", len(ctx.points)),
		zap.Int("heads", len(ctx.headPositions)),
		zap.Int("headless", len(ctx.headlessPositions)))
}

// pinheads writes one head record per head-capable anchor. Heads stay in
// canonical pose here; they are transformed when routing decides their
// fate.
func pinheads(ctx *planContext) {
	for i := range ctx.headPositions {
		ctx.tree.AddHead(NewHead(
			ctx.cfg.HeadBackRadius,
			ctx.cfg.HeadFrontRadius,
			ctx.cfg.HeadWidth,
			ctx.filteredNormals[i],
			ctx.headPositions[i],
			DefaultSteps,
		))
	}
}

// classify splits heads into ground-reaching and airborne by shooting a
// ray straight down from each junction point, groups the ground heads
// into XY clusters, and finishes the airborne heads immediately: each one
// gets a short pillar standing on an upward-pointing cap head that seats
// on the model below.
func classify(ctx *planContext) {
	down := v3.Vec{X: 0, Y: 0, Z: -1}

	for i := range ctx.headPositions {
		head := ctx.tree.Head(i)
		t := spatial.RayMeshIntersect(head.JunctionPoint(), down, ctx.object)
		ctx.headHeights = append(ctx.headHeights, t)
		if math.IsInf(t, 1) {
			ctx.groundHeads = append(ctx.groundHeads, i)
		} else {
			ctx.airborneHeads = append(ctx.airborneHeads, i)
		}
	}

	gnd := make([]v3.Vec, len(ctx.groundHeads))
	for i, idx := range ctx.groundHeads {
		gnd[i] = ctx.headPositions[idx]
	}

	// group ground heads that are close enough in XY to share a pillar
	dBase := 4 * ctx.cfg.BaseRadius
	ctx.groundClusters = cluster.Cluster(gnd, func(a, b cluster.Element) bool {
		return xyDist(a.Pos, b.Pos) < dBase
	}, maxClusterHeads)

	for _, idx := range ctx.airborneHeads {
		head := ctx.tree.Head(idx)
		head.Transform()
		head.AddTail(0, 0)

		gh := ctx.headHeights[idx]
		headend := head.JunctionPoint()

		capHead := NewHead(
			ctx.cfg.HeadBackRadius,
			ctx.cfg.HeadFrontRadius,
			ctx.cfg.HeadWidth,
			v3.Vec{X: 0, Y: 0, Z: 1},
			v3.Vec{X: headend.X, Y: headend.Y, Z: headend.Z - gh - head.FrontRadius},
			DefaultSteps,
		)
		capHead.Transform()

		hl := head.FullWidth() - head.BackRadius
		p := NewPillar(head, idx,
			v3.Vec{X: headend.X, Y: headend.Y, Z: headend.Z - gh + hl},
			ctx.cfg.PillarRadius)
		p.Base = capHead.Mesh
		ctx.tree.AddPillar(p)
	}
}

// routeGround builds the ground scaffold: one shared pillar per cluster
// at its elected centroid, bridges wiring the other cluster members onto
// it, and finally the concentric-ring bridging pass across the centroid
// pillars.
func routeGround(ctx *planContext) {
	hbr := ctx.cfg.HeadBackRadius
	slope := math.Sin(-ctx.cfg.Tilt)

	gndPt := func(i int) v3.Vec {
		return ctx.headPositions[ctx.groundHeads[i]]
	}

	for _, cl := range ctx.groundClusters {
		cidx := cluster.Centroid(cl, gndPt, func(p1, p2 v3.Vec) float64 {
			return xyDist(p1, p2)
		})

		// the centroid head carries the cluster's shared pillar,
		// grounded with a flared pad
		headIdx := ctx.groundHeads[cl[cidx]]
		head := ctx.tree.Head(headIdx)
		head.Transform()
		head.AddTail(0, 0)

		startp := head.JunctionPoint()
		endp := startp
		endp.Z = 0

		pil := NewPillar(head, headIdx, endp, ctx.cfg.PillarRadius)
		pil.AddBase(ctx.cfg.BaseHeight, ctx.cfg.BaseRadius)
		ctx.centralPillars = append(ctx.centralPillars, ctx.tree.AddPillar(pil))

		for k, c := range cl {
			if k == cidx {
				continue
			}
			routeSideHead(ctx, head, c, slope)
		}
	}

	bridgeRings(ctx, hbr, slope)
}

// routeSideHead wires one non-centroid cluster member to the cluster's
// central head: a short pillar down to a junction one head-length below
// its own junction point, then a tilted bridge over to a junction on the
// central pillar. Without headroom for the bridge the side head gets a
// dedicated ground pillar instead.
func routeSideHead(ctx *planContext, central *Head, c int, slope float64) {
	sideIdx := ctx.groundHeads[c]
	sidehead := ctx.tree.Head(sideIdx)
	sidehead.Transform()
	sidehead.AddTail(0, 0)

	rPillar := sidehead.RequestPillarRadius(ctx.cfg.PillarRadius)

	jp := sidehead.JunctionPoint()
	jp.Z -= sidehead.FullWidth()

	// hit the central pillar with the tilted bridge: simple trigonometry
	// on the XY distance between the two pillars
	jh := central.JunctionPoint()
	d := xyDist(jp, jh)
	jn := v3.Vec{X: jh.X, Y: jh.Y, Z: jp.Z + d*slope}

	if jn.Z > 0 {
		jjp := ctx.tree.AddJunction(NewJunction(jp, ctx.cfg.HeadBackRadius, DefaultSteps))
		ctx.tree.AddPillar(NewPillar(sidehead, sideIdx, jp, ctx.cfg.PillarRadius))
		jjn := ctx.tree.AddJunction(NewJunction(jn, ctx.cfg.HeadBackRadius, DefaultSteps))
		ctx.tree.AddBridge(NewBridge(ctx.tree.Junction(jjp), ctx.tree.Junction(jjn), rPillar))
	} else {
		// no room for the connection; dense anchors near the ground
		// each get their own pillar
		jp.Z = 0
		sp := NewPillar(sidehead, sideIdx, jp, ctx.cfg.PillarRadius)
		sp.AddBase(ctx.cfg.BaseHeight, ctx.cfg.BaseRadius)
		ctx.tree.AddPillar(sp)
	}
}

// bridgeRings walks the centroid pillars in concentric convex-hull rings
// and ties consecutive ring neighbors together with ladders of tilted
// bridges. Connecting ring members only keeps bridges from crossing each
// other; peeling the hull off and repeating covers the interior.
func bridgeRings(ctx *planContext, hbr, slope float64) {
	if len(ctx.centralPillars) == 0 {
		return
	}
	if slope >= 0 {
		// a non-descending ladder would climb forever
		ctx.log.Warn("ring bridging skipped: bridge slope does not descend",
			zap.Float64("tilt", ctx.cfg.Tilt))
		return
	}

	jindex := spatial.NewIndex()
	for ji, j := range ctx.tree.Junctions() {
		jindex.Insert(v3.Vec{X: j.Pos.X, Y: j.Pos.Y, Z: 0}, ji)
	}

	rem := append([]int(nil), ctx.centralPillars...)
	for len(rem) > 0 {
		sort.Ints(rem)

		ring := cluster.ConvexHull(rem, func(i int) v2.Vec {
			e := ctx.tree.Pillar(i).Endpoint
			return v2.Vec{X: e.X, Y: e.Y}
		})
		ctx.log.Debug("bridging ring", zap.Ints("pillars", ring))

		for ri := 0; ri+1 < len(ring); ri++ {
			bridgePair(ctx, jindex, ring[ri], ring[ri+1], hbr, slope)
		}

		rem = subtract(rem, ring)
	}
}

// bridgePair connects two neighboring ring pillars. The ladder starts at
// the highest junction of jindex on the first pillar (or at its head when
// there is none) and zigzags downward; junctions added by earlier ring
// bridges are not in jindex and are not considered. It emits a bridge at
// every rung that clears the model and stays below the far head.
func bridgePair(ctx *planContext, jindex *spatial.Index, pi, ni int, hbr, slope float64) {
	pillar := ctx.tree.Pillar(pi)
	next := ctx.tree.Pillar(ni)

	d := 2 * pillar.R
	pp := v3.Vec{X: pillar.Endpoint.X, Y: pillar.Endpoint.Y, Z: 0}

	var sj v3.Vec
	if juncs := jindex.Within(pp, d); len(juncs) == 0 {
		// no junctions on the pillar so far; use the head
		sj = ctx.tree.Head(pillar.HeadIndex).JunctionPoint()
	} else {
		best := juncs[0]
		for _, je := range juncs[1:] {
			if ctx.tree.Junction(je.ID).Pos.Z > ctx.tree.Junction(best.ID).Pos.Z {
				best = je
			}
		}
		sj = ctx.tree.Junction(best.ID).Pos
	}

	ej := next.Endpoint
	dist := xyDist(sj, ej)
	ej.Z = sj.Z + dist*slope

	chkd := spatial.RayMeshIntersect(sj, ej.Sub(sj).Normalize(), ctx.object)
	nstartz := ctx.tree.Head(next.HeadIndex).JunctionPoint().Z

	for next.Endpoint.Z < ej.Z && pillar.Endpoint.Z < sj.Z {
		if chkd >= dist && nstartz > ej.Z {
			jS := ctx.tree.AddJunction(NewJunction(sj, hbr, DefaultSteps))
			jE := ctx.tree.AddJunction(NewJunction(ej, hbr, DefaultSteps))
			ctx.tree.AddBridge(NewBridge(ctx.tree.Junction(jS), ctx.tree.Junction(jE), pillar.R))
		}

		sj, ej = ej, sj
		ej.Z = sj.Z + dist*slope
		chkd = spatial.RayMeshIntersect(sj, ej.Sub(sj).Normalize(), ctx.object)
	}
}

// subtract returns sorted a minus sorted b.
func subtract(a, b []int) []int {
	sb := append([]int(nil), b...)
	sort.Ints(sb)

	var out []int
	i, j := 0, 0
	for i < len(a) {
		switch {
		case j >= len(sb) || a[i] < sb[j]:
			out = append(out, a[i])
			i++
		case a[i] == sb[j]:
			i++
			j++
		default:
			j++
		}
	}
	return out
}
