package gsom

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/PeakBI/vrp/pkg/rng"
)

// minNetworkSize is the floor compact() will never shrink the lattice
// below: at least four nodes always survive, whichever ones they are.
const minNetworkSize = 4

// growRadius is the neighbourhood radius used for error distribution and
// weight adjustment. Growth only spawns nodes at the immediate cardinal
// neighbours, though it seeds their weights from a radius-2 neighbourhood.
const growRadius = 2

// NetworkConfig parameterizes a new Network.
type NetworkConfig struct {
	// SpreadFactor controls the growing threshold GT = -D*log2(SF):
	// smaller values raise GT, so a node takes more error before it grows
	// or redistributes.
	SpreadFactor float64
	// DistributionFactor (FD) scales how much error a non-boundary node
	// hands off to its neighbours. Must be in (0, 1).
	DistributionFactor float64
	// LearningRate is the base Kohonen learning rate before the
	// network-size decay term is applied.
	LearningRate float64
	// RebalanceMemory bounds how many recent hits a node remembers.
	RebalanceMemory int
	// HasInitialError seeds the four root nodes at the growing threshold
	// instead of zero, making them eligible to grow immediately.
	HasInitialError bool
	// Random drives the initial weight jitter and the rebalance shuffle.
	Random *rng.RNG
}

// Network is a Growing Self-Organizing Map over inputs of type I, backed
// by per-node storage of type S built by a StorageFactory F. The lattice
// starts as a 2x2 grid and grows new nodes at its boundary as trained
// inputs accumulate error there.
//
// Concurrency: each node guards its own weights/error/storage with its
// own RWMutex; Network's own RWMutex guards only the node map's
// structure (insertion, compaction, iteration). find_bmu and batch
// matching hold only read locks and can run fully in parallel; growth,
// error distribution, and weight adjustment take the node-level write
// locks they need and release them before returning.
type Network[I Input, S Storage[I], F StorageFactory[I, S]] struct {
	mu sync.RWMutex

	dimension          int
	growingThreshold   float64
	distributionFactor float64
	learningRate       float64
	time               int
	rebalanceMemory    int

	minWeights []float64
	maxWeights []float64

	nodes          map[Coordinate]*Node[I, S]
	storageFactory F
	random         *rng.RNG
}

// New creates a network seeded with four root inputs at the corners of a
// 2x2 lattice: (0,0), (0,1), (1,1), (1,0).
func New[I Input, S Storage[I], F StorageFactory[I, S]](roots [4]I, config NetworkConfig, storageFactory F) *Network[I, S, F] {
	dimension := len(roots[0].Weights())
	for _, r := range roots {
		if len(r.Weights()) != dimension {
			panic("gsom: all root inputs must share the same dimension")
		}
	}
	if config.DistributionFactor <= 0 || config.DistributionFactor >= 1 {
		panic("gsom: distribution factor must be in (0, 1)")
	}

	growingThreshold := -1 * float64(dimension) * math.Log2(config.SpreadFactor)
	initialError := 0.0
	if config.HasInitialError {
		initialError = growingThreshold
	}
	net := &Network[I, S, F]{
		dimension:          dimension,
		growingThreshold:   growingThreshold,
		distributionFactor: config.DistributionFactor,
		learningRate:       config.LearningRate,
		rebalanceMemory:    config.RebalanceMemory,
		nodes:              make(map[Coordinate]*Node[I, S]),
		storageFactory:     storageFactory,
		random:             config.Random,
	}
	net.createInitialNodes(roots, initialError, config.Random)
	return net
}

// createInitialNodes seeds the four root nodes of the lattice. Each root
// gets its own jitter stream, derived from the network's RNG and labeled
// by that root's coordinate (rng.RNG.Derive), rather than all four roots
// drawing sequentially from one shared stream -- so inserting or removing
// a root coordinate never shifts the jitter any other root receives.
func (net *Network[I, S, F]) createInitialNodes(roots [4]I, initialError float64, random *rng.RNG) {
	coords := [4]Coordinate{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}}

	net.minWeights = make([]float64, net.dimension)
	net.maxWeights = make([]float64, net.dimension)
	for i := range net.minWeights {
		net.minWeights[i] = math.MaxFloat64
		net.maxWeights[i] = -math.MaxFloat64
	}

	for i, root := range roots {
		coord := coords[i]
		noise := NewNoise(1, 0.95, 1.05, random.Derive(fmt.Sprintf("root-%d-%d", coord.X, coord.Y)))
		weights := make([]float64, net.dimension)
		for j, v := range root.Weights() {
			weights[j] = noise.Generate(v)
		}
		node := newNode[I, S](coord, weights, initialError, net.rebalanceMemory, net.storageFactory.Eval())
		node.storage.Add(root)
		net.nodes[coord] = node
		updateMinMax(net.minWeights, net.maxWeights, weights)
	}
}

// Store trains the network on a single input at the given logical time.
func (net *Network[I, S, F]) Store(input I, time int) {
	net.mu.Lock()
	net.time = time
	net.mu.Unlock()
	net.train(input, true)
}

// StoreBatch trains the network on a batch of inputs at the given logical
// time. Best-matching-unit search for every input runs concurrently;
// updates are then applied one at a time in input order, since two inputs
// routed to the same or neighbouring nodes cannot safely mutate that
// neighbourhood at once.
func (net *Network[I, S, F]) StoreBatch(ctx context.Context, inputs []I, time int) error {
	net.mu.Lock()
	net.time = time
	net.mu.Unlock()
	return net.trainBatch(ctx, inputs, true)
}

// Retrain compacts away nodes that fail nodeFilter, replays every node's
// accumulated storage rebalanceCount times, then compacts again to drop
// any nodes that ended up failing the filter as a result.
func (net *Network[I, S, F]) Retrain(rebalanceCount int, nodeFilter func(*Node[I, S]) bool) {
	net.compact(nodeFilter)
	net.rebalance(rebalanceCount)
	net.compact(nodeFilter)
}

// Find returns the node at coordinate, if one exists.
func (net *Network[I, S, F]) Find(coordinate Coordinate) (*Node[I, S], bool) {
	net.mu.RLock()
	defer net.mu.RUnlock()
	n, ok := net.nodes[coordinate]
	return n, ok
}

// Coordinates returns every occupied coordinate, in arbitrary order.
func (net *Network[I, S, F]) Coordinates() []Coordinate {
	net.mu.RLock()
	defer net.mu.RUnlock()
	out := make([]Coordinate, 0, len(net.nodes))
	for c := range net.nodes {
		out = append(out, c)
	}
	return out
}

// Nodes returns every node, in arbitrary order.
func (net *Network[I, S, F]) Nodes() []*Node[I, S] {
	net.mu.RLock()
	defer net.mu.RUnlock()
	out := make([]*Node[I, S], 0, len(net.nodes))
	for _, n := range net.nodes {
		out = append(out, n)
	}
	return out
}

// All returns a coordinate-to-node snapshot of the lattice.
func (net *Network[I, S, F]) All() map[Coordinate]*Node[I, S] {
	net.mu.RLock()
	defer net.mu.RUnlock()
	out := make(map[Coordinate]*Node[I, S], len(net.nodes))
	for c, n := range net.nodes {
		out[c] = n
	}
	return out
}

// Size returns the number of nodes currently in the lattice.
func (net *Network[I, S, F]) Size() int {
	net.mu.RLock()
	defer net.mu.RUnlock()
	return len(net.nodes)
}

// CurrentTime returns the logical time of the most recent Store/StoreBatch call.
func (net *Network[I, S, F]) CurrentTime() int {
	net.mu.RLock()
	defer net.mu.RUnlock()
	return net.time
}

func (net *Network[I, S, F]) train(input I, isNewInput bool) {
	bmu := net.findBMU(input)

	bmu.mu.RLock()
	errVal := bmu.distance(input.Weights())
	bmu.mu.RUnlock()

	net.update(bmu, input, errVal, isNewInput)

	bmu.mu.Lock()
	bmu.storage.Add(input)
	bmu.mu.Unlock()
}

func (net *Network[I, S, F]) trainBatch(ctx context.Context, inputs []I, isNewInput bool) error {
	type matched struct {
		node  *Node[I, S]
		err   float64
		input I
	}
	matches := make([]matched, len(inputs))

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range inputs {
		i := i
		g.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			input := inputs[i]
			bmu := net.findBMU(input)
			bmu.mu.RLock()
			errVal := bmu.distance(input.Weights())
			bmu.mu.RUnlock()
			matches[i] = matched{node: bmu, err: errVal, input: input}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, m := range matches {
		net.update(m.node, m.input, m.err, isNewInput)
		m.node.mu.Lock()
		m.node.storage.Add(m.input)
		m.node.mu.Unlock()
	}
	return nil
}

func (net *Network[I, S, F]) findBMU(input I) *Node[I, S] {
	net.mu.RLock()
	defer net.mu.RUnlock()

	weights := input.Weights()
	var best *Node[I, S]
	bestDistance := math.Inf(1)
	for _, node := range net.nodes {
		node.mu.RLock()
		d := node.distance(weights)
		node.mu.RUnlock()
		if d < bestDistance {
			bestDistance = d
			best = node
		}
	}
	if best == nil {
		panic("gsom: network has no nodes")
	}
	return best
}

type neighbour[I Input, S Storage[I]] struct {
	node   *Node[I, S]
	offset Coordinate
}

func (net *Network[I, S, F]) neighboursOf(coord Coordinate, radius int) []neighbour[I, S] {
	return net.neighboursAt(coord, offsetsWithinRadius(radius))
}

// cardinalNeighboursOf returns the four direct (Manhattan distance 1)
// neighbours of coord: the "4-neighbor" sides used for boundary
// detection and growth, as opposed to the wider Chebyshev neighbourhoods
// used for error distribution and weight adjustment.
func (net *Network[I, S, F]) cardinalNeighboursOf(coord Coordinate) []neighbour[I, S] {
	return net.neighboursAt(coord, cardinalOffsets())
}

func (net *Network[I, S, F]) neighboursAt(coord Coordinate, offsets []Coordinate) []neighbour[I, S] {
	net.mu.RLock()
	defer net.mu.RUnlock()

	out := make([]neighbour[I, S], len(offsets))
	for i, off := range offsets {
		out[i] = neighbour[I, S]{node: net.nodes[coord.Add(off)], offset: off}
	}
	return out
}

// CardinalNeighbours returns the existing direct (Manhattan distance 1)
// neighbour nodes of coord, omitting any side currently absent from the
// lattice. Exposed so a caller building a population atop the network
// (pkg/refinement) can sample parents from a best-matching unit's
// immediate neighbourhood instead of flattening the whole lattice.
func (net *Network[I, S, F]) CardinalNeighbours(coord Coordinate) []*Node[I, S] {
	var out []*Node[I, S]
	for _, nb := range net.cardinalNeighboursOf(coord) {
		if nb.node != nil {
			out = append(out, nb.node)
		}
	}
	return out
}

// isBoundary reports whether coord is missing at least one of its four
// immediate cardinal neighbours.
func (net *Network[I, S, F]) isBoundary(coord Coordinate) bool {
	for _, nb := range net.cardinalNeighboursOf(coord) {
		if nb.node == nil {
			return true
		}
	}
	return false
}

func (net *Network[I, S, F]) update(node *Node[I, S], input I, errorDelta float64, isNewInput bool) {
	node.mu.Lock()
	node.errorValue += errorDelta
	if isNewInput {
		net.mu.RLock()
		t := net.time
		net.mu.RUnlock()
		node.newHit(t)
	}
	exceedsThreshold := node.errorValue > net.growingThreshold
	node.mu.Unlock()

	boundary := net.isBoundary(node.Coordinate)

	switch {
	case exceedsThreshold && !boundary:
		net.distributeError(node, growRadius)
	case exceedsThreshold && boundary:
		net.grow(node)
	default:
		net.adjustWeights(node, input, growRadius)
	}
}

// distributeError resets the node's own error to half the growing
// threshold and raises every neighbour's error within radius by
// FD/manhattan-distance times that neighbour's own current error.
func (net *Network[I, S, F]) distributeError(node *Node[I, S], radius int) {
	node.mu.Lock()
	node.errorValue = 0.5 * net.growingThreshold
	node.mu.Unlock()

	for _, nb := range net.neighboursOf(node.Coordinate, radius) {
		if nb.node == nil {
			continue
		}
		factor := net.distributionFactor / float64(nb.offset.manhattan())
		nb.node.mu.Lock()
		nb.node.errorValue += factor * nb.node.errorValue
		nb.node.mu.Unlock()
	}
}

// grow spawns the node's missing cardinal neighbours. Each new node's
// weights are seeded from the existing nodes within Chebyshev radius 2 of
// its coordinate: close ones (Manhattan distance < 2) and far ones
// (Manhattan distance 2 or more); a node with exactly one close
// neighbour and no far neighbour (the lattice corner case) instead
// settles on the midpoint of the network's observed weight envelope.
func (net *Network[I, S, F]) grow(node *Node[I, S]) {
	node.mu.RLock()
	coord := node.Coordinate
	node.mu.RUnlock()

	var missing []Coordinate
	for _, nb := range net.cardinalNeighboursOf(coord) {
		if nb.node == nil {
			missing = append(missing, nb.offset)
		}
	}

	type spawned struct {
		coord   Coordinate
		weights []float64
	}
	newNodes := make([]spawned, 0, len(missing))

	for _, off := range missing {
		newCoord := coord.Add(off)

		var closeWeights, farWeights [][]float64
		for _, nb := range net.neighboursOf(newCoord, 2) {
			if nb.node == nil {
				continue
			}
			w := nb.node.Weights()
			if nb.offset.manhattan() < 2 {
				closeWeights = append(closeWeights, w)
			} else {
				farWeights = append(farWeights, w)
			}
		}

		var weights []float64
		if len(closeWeights) == 1 && len(farWeights) == 0 {
			net.mu.RLock()
			weights = make([]float64, net.dimension)
			for i := range weights {
				weights[i] = (net.minWeights[i] + net.maxWeights[i]) / 2
			}
			net.mu.RUnlock()
		} else {
			closeAvg := averageWeights(closeWeights, net.dimension)
			farAvg := averageWeights(farWeights, net.dimension)
			weights = make([]float64, net.dimension)
			for i := range weights {
				w1, w2 := closeAvg[i], farAvg[i]
				if w2 > w1 {
					weights[i] = w1 - (w2 - w1)
				} else {
					weights[i] = w1 + (w1 - w2)
				}
			}
		}

		newNodes = append(newNodes, spawned{coord: newCoord, weights: weights})
	}

	for _, n := range newNodes {
		net.insert(n.coord, n.weights)
	}
}

func (net *Network[I, S, F]) adjustWeights(node *Node[I, S], input I, radius int) {
	net.mu.RLock()
	learningRate := net.learningRate * (1 - 3.8/float64(len(net.nodes)))
	net.mu.RUnlock()

	weights := input.Weights()

	node.mu.Lock()
	node.adjust(weights, learningRate)
	adjusted := [][]float64{append([]float64(nil), node.weights...)}
	node.mu.Unlock()

	for _, nb := range net.neighboursOf(node.Coordinate, radius) {
		if nb.node == nil {
			continue
		}
		nb.node.mu.Lock()
		nb.node.adjust(weights, learningRate)
		adjusted = append(adjusted, append([]float64(nil), nb.node.weights...))
		nb.node.mu.Unlock()
	}

	// Widen the envelope so it keeps covering every node's current weights.
	net.mu.Lock()
	for _, w := range adjusted {
		updateMinMax(net.minWeights, net.maxWeights, w)
	}
	net.mu.Unlock()
}

func (net *Network[I, S, F]) insert(coord Coordinate, weights []float64) {
	net.mu.Lock()
	defer net.mu.Unlock()
	updateMinMax(net.minWeights, net.maxWeights, weights)
	net.nodes[coord] = newNode[I, S](coord, weights, 0, net.rebalanceMemory, net.storageFactory.Eval())
}

func (net *Network[I, S, F]) rebalance(rebalanceCount int) {
	for i := 0; i < rebalanceCount; i++ {
		net.mu.Lock()
		var data []I
		for _, node := range net.nodes {
			node.mu.Lock()
			data = append(data, node.storage.Drain()...)
			node.mu.Unlock()
		}
		net.mu.Unlock()

		net.random.Shuffle(len(data), func(a, b int) {
			data[a], data[b] = data[b], data[a]
		})

		for _, input := range data {
			net.train(input, false)
		}
	}
}

// compact drops every node that fails nodeFilter, never shrinking the
// lattice below minNetworkSize.
func (net *Network[I, S, F]) compact(nodeFilter func(*Node[I, S]) bool) {
	if nodeFilter == nil {
		return
	}

	net.mu.Lock()
	defer net.mu.Unlock()

	original := len(net.nodes)
	removed := 0
	for coord, node := range net.nodes {
		if original-removed <= minNetworkSize {
			break
		}
		if !nodeFilter(node) {
			delete(net.nodes, coord)
			removed++
		}
	}
}

func updateMinMax(min, max []float64, weights []float64) {
	for i, v := range weights {
		if v < min[i] {
			min[i] = v
		}
		if v > max[i] {
			max[i] = v
		}
	}
}

// averageWeights returns the component-wise mean of vectors, or the zero
// vector if vectors is empty. The zero-vector fallback resolves what
// would otherwise be a division by zero when a newly grown node has a
// close or far partition with no members yet.
func averageWeights(vectors [][]float64, dimension int) []float64 {
	avg := make([]float64, dimension)
	if len(vectors) == 0 {
		return avg
	}
	for _, v := range vectors {
		for i, x := range v {
			avg[i] += x
		}
	}
	for i := range avg {
		avg[i] /= float64(len(vectors))
	}
	return avg
}
