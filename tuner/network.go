package tuner

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

const (
	numInputs  = 3
	hiddenSize = 64
	numOutputs = 3

	adamBeta1   = 0.9
	adamBeta2   = 0.999
	adamEpsilon = 1e-8
)

// Network is the 3->64->64->3 feed-forward approximator with ReLU hidden
// activations. Weights and Adam moment estimates live for one run and are
// never persisted.
type Network struct {
	l1, l2, l3 *layer
	step       int
}

type layer struct {
	w      *mat.Dense
	b      *mat.VecDense
	mw, vw *mat.Dense
	mb, vb *mat.VecDense
}

func newLayer(out, in int, rng *rand.Rand) *layer {
	// He initialization for the ReLU stack.
	scale := math.Sqrt(2.0 / float64(in))
	data := make([]float64, out*in)
	for i := range data {
		data[i] = rng.NormFloat64() * scale
	}
	return &layer{
		w:  mat.NewDense(out, in, data),
		b:  mat.NewVecDense(out, nil),
		mw: mat.NewDense(out, in, nil),
		vw: mat.NewDense(out, in, nil),
		mb: mat.NewVecDense(out, nil),
		vb: mat.NewVecDense(out, nil),
	}
}

// forwardState keeps the activations one Propose produced so the matching
// Update can backpropagate through them.
type forwardState struct {
	x      *mat.VecDense
	z1, z2 *mat.VecDense // pre-activations of the hidden layers
	h1, h2 *mat.VecDense // post-ReLU activations
	raw    *mat.VecDense // output pre-activations
}

// NewNetwork creates a randomly initialized network from the given source of
// randomness.
func NewNetwork(rng *rand.Rand) *Network {
	return &Network{
		l1: newLayer(hiddenSize, numInputs, rng),
		l2: newLayer(hiddenSize, hiddenSize, rng),
		l3: newLayer(numOutputs, hiddenSize, rng),
	}
}

// Propose runs the network on x and adds the exploration noise to the raw
// outputs. The returned raw vector feeds Bounds.FromRaw; the state feeds the
// matching Update.
func (n *Network) Propose(x, noise []float64) ([]float64, *forwardState) {
	fs := &forwardState{x: mat.NewVecDense(numInputs, append([]float64(nil), x...))}

	fs.z1 = mat.NewVecDense(hiddenSize, nil)
	fs.z1.MulVec(n.l1.w, fs.x)
	fs.z1.AddVec(fs.z1, n.l1.b)
	fs.h1 = reluVec(fs.z1)

	fs.z2 = mat.NewVecDense(hiddenSize, nil)
	fs.z2.MulVec(n.l2.w, fs.h1)
	fs.z2.AddVec(fs.z2, n.l2.b)
	fs.h2 = reluVec(fs.z2)

	fs.raw = mat.NewVecDense(numOutputs, nil)
	fs.raw.MulVec(n.l3.w, fs.h2)
	fs.raw.AddVec(fs.raw, n.l3.b)

	out := make([]float64, numOutputs)
	for j := range out {
		out[j] = fs.raw.AtVec(j)
		if j < len(noise) {
			out[j] += noise[j]
		}
	}
	return out, fs
}

// Update backpropagates the output-side gradient gOut through the stored
// activations and applies one Adam step to every weight and bias.
func (n *Network) Update(fs *forwardState, gOut []float64, learnRate float64) {
	n.step++

	d3 := mat.NewVecDense(numOutputs, append([]float64(nil), gOut...))

	gw3 := mat.NewDense(numOutputs, hiddenSize, nil)
	gw3.Outer(1, d3, fs.h2)

	d2 := mat.NewVecDense(hiddenSize, nil)
	d2.MulVec(n.l3.w.T(), d3)
	hadamardReluGrad(d2, fs.z2)

	gw2 := mat.NewDense(hiddenSize, hiddenSize, nil)
	gw2.Outer(1, d2, fs.h1)

	d1 := mat.NewVecDense(hiddenSize, nil)
	d1.MulVec(n.l2.w.T(), d2)
	hadamardReluGrad(d1, fs.z1)

	gw1 := mat.NewDense(hiddenSize, numInputs, nil)
	gw1.Outer(1, d1, fs.x)

	n.l3.adamStep(gw3, d3, learnRate, n.step)
	n.l2.adamStep(gw2, d2, learnRate, n.step)
	n.l1.adamStep(gw1, d1, learnRate, n.step)
}

func (l *layer) adamStep(gw *mat.Dense, gb *mat.VecDense, learnRate float64, step int) {
	adamUpdate(l.w.RawMatrix().Data, gw.RawMatrix().Data,
		l.mw.RawMatrix().Data, l.vw.RawMatrix().Data, learnRate, step)
	adamUpdate(l.b.RawVector().Data, gb.RawVector().Data,
		l.mb.RawVector().Data, l.vb.RawVector().Data, learnRate, step)
}

func adamUpdate(p, g, m, v []float64, learnRate float64, step int) {
	bc1 := 1.0 - math.Pow(adamBeta1, float64(step))
	bc2 := 1.0 - math.Pow(adamBeta2, float64(step))
	for i := range p {
		m[i] = adamBeta1*m[i] + (1.0-adamBeta1)*g[i]
		v[i] = adamBeta2*v[i] + (1.0-adamBeta2)*g[i]*g[i]
		p[i] -= learnRate * (m[i] / bc1) / (math.Sqrt(v[i]/bc2) + adamEpsilon)
	}
}

func reluVec(z *mat.VecDense) *mat.VecDense {
	out := mat.NewVecDense(z.Len(), nil)
	for i := 0; i < z.Len(); i++ {
		if v := z.AtVec(i); v > 0 {
			out.SetVec(i, v)
		}
	}
	return out
}

// hadamardReluGrad zeroes the entries of d where the pre-activation was not
// positive.
func hadamardReluGrad(d, z *mat.VecDense) {
	for i := 0; i < d.Len(); i++ {
		if z.AtVec(i) <= 0 {
			d.SetVec(i, 0)
		}
	}
}
