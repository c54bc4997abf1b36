// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package join

import (
	"code.hybscloud.com/kont"
)

// Pair is the result of a two-way heterogeneous join.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Triple is the result of a three-way heterogeneous join.
type Triple[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// Zip2 waits for both operations and yields their outputs as a Pair,
// preserving positional order. The heterogeneous counterpart of [Zip].
func Zip2[A, B any](a Op[A], b Op[B]) Op[Pair[A, B]] {
	ops := []anyOp{eraser[A]{op: a}, eraser[B]{op: b}}
	return &zip2Op[A, B]{g: newGroup(ops, policyZip, nil)}
}

type zip2Op[A, B any] struct {
	g *group
}

func (z *zip2Op[A, B]) PollReady(w Waker) (Pair[A, B], bool) {
	if !z.g.step(w) {
		var zero Pair[A, B]
		return zero, false
	}
	return Pair[A, B]{
		First:  unerase[A](z.g.slots[0].out),
		Second: unerase[B](z.g.slots[1].out),
	}, true
}

func (z *zip2Op[A, B]) PollCancel(w Waker) bool {
	return z.g.cancel(w)
}

// Zip3 waits for all three operations and yields their outputs as a Triple.
func Zip3[A, B, C any](a Op[A], b Op[B], c Op[C]) Op[Triple[A, B, C]] {
	ops := []anyOp{eraser[A]{op: a}, eraser[B]{op: b}, eraser[C]{op: c}}
	return &zip3Op[A, B, C]{g: newGroup(ops, policyZip, nil)}
}

type zip3Op[A, B, C any] struct {
	g *group
}

func (z *zip3Op[A, B, C]) PollReady(w Waker) (Triple[A, B, C], bool) {
	if !z.g.step(w) {
		var zero Triple[A, B, C]
		return zero, false
	}
	return Triple[A, B, C]{
		First:  unerase[A](z.g.slots[0].out),
		Second: unerase[B](z.g.slots[1].out),
		Third:  unerase[C](z.g.slots[2].out),
	}, true
}

func (z *zip3Op[A, B, C]) PollCancel(w Waker) bool {
	return z.g.cancel(w)
}

// TryZip2 joins two Either-valued operations fail-fast: Right(Pair) if both
// succeed, otherwise the first observed Left with the other leg cancelled.
// Classification is the legs' own Either shape; no hook is needed.
func TryZip2[E, A, B any](a Op[kont.Either[E, A]], b Op[kont.Either[E, B]]) Op[kont.Either[E, Pair[A, B]]] {
	ops := []anyOp{eraser[kont.Either[E, A]]{op: a}, eraser[kont.Either[E, B]]{op: b}}
	cl := func(i int, out any) (any, any, bool) {
		if i == 0 {
			return splitEither(out.(kont.Either[E, A]))
		}
		return splitEither(out.(kont.Either[E, B]))
	}
	return &tryZip2Op[E, A, B]{g: newGroup(ops, policyTryZip, cl)}
}

type tryZip2Op[E, A, B any] struct {
	g *group
}

func (z *tryZip2Op[E, A, B]) PollReady(w Waker) (kont.Either[E, Pair[A, B]], bool) {
	if !z.g.step(w) {
		var zero kont.Either[E, Pair[A, B]]
		return zero, false
	}
	if z.g.triggered {
		return kont.Left[E, Pair[A, B]](unerase[E](z.g.errVal)), true
	}
	return kont.Right[E, Pair[A, B]](Pair[A, B]{
		First:  unerase[A](z.g.slots[0].out),
		Second: unerase[B](z.g.slots[1].out),
	}), true
}

func (z *tryZip2Op[E, A, B]) PollCancel(w Waker) bool {
	return z.g.cancel(w)
}

// TryZip3 joins three Either-valued operations fail-fast.
func TryZip3[E, A, B, C any](a Op[kont.Either[E, A]], b Op[kont.Either[E, B]], c Op[kont.Either[E, C]]) Op[kont.Either[E, Triple[A, B, C]]] {
	ops := []anyOp{
		eraser[kont.Either[E, A]]{op: a},
		eraser[kont.Either[E, B]]{op: b},
		eraser[kont.Either[E, C]]{op: c},
	}
	cl := func(i int, out any) (any, any, bool) {
		switch i {
		case 0:
			return splitEither(out.(kont.Either[E, A]))
		case 1:
			return splitEither(out.(kont.Either[E, B]))
		default:
			return splitEither(out.(kont.Either[E, C]))
		}
	}
	return &tryZip3Op[E, A, B, C]{g: newGroup(ops, policyTryZip, cl)}
}

type tryZip3Op[E, A, B, C any] struct {
	g *group
}

func (z *tryZip3Op[E, A, B, C]) PollReady(w Waker) (kont.Either[E, Triple[A, B, C]], bool) {
	if !z.g.step(w) {
		var zero kont.Either[E, Triple[A, B, C]]
		return zero, false
	}
	if z.g.triggered {
		return kont.Left[E, Triple[A, B, C]](unerase[E](z.g.errVal)), true
	}
	return kont.Right[E, Triple[A, B, C]](Triple[A, B, C]{
		First:  unerase[A](z.g.slots[0].out),
		Second: unerase[B](z.g.slots[1].out),
		Third:  unerase[C](z.g.slots[2].out),
	}), true
}

func (z *tryZip3Op[E, A, B, C]) PollCancel(w Waker) bool {
	return z.g.cancel(w)
}

// RaceOk2 races two Either-valued operations with possibly distinct error
// types toward the first Right. If both legs finish Left, the group yields
// Left(Pair of both errors) in positional order.
func RaceOk2[EA, EB, T any](a Op[kont.Either[EA, T]], b Op[kont.Either[EB, T]]) Op[kont.Either[Pair[EA, EB], T]] {
	ops := []anyOp{eraser[kont.Either[EA, T]]{op: a}, eraser[kont.Either[EB, T]]{op: b}}
	cl := func(i int, out any) (any, any, bool) {
		if i == 0 {
			return splitEither(out.(kont.Either[EA, T]))
		}
		return splitEither(out.(kont.Either[EB, T]))
	}
	return &raceOk2Op[EA, EB, T]{g: newGroup(ops, policyRaceOk, cl)}
}

type raceOk2Op[EA, EB, T any] struct {
	g *group
}

func (r *raceOk2Op[EA, EB, T]) PollReady(w Waker) (kont.Either[Pair[EA, EB], T], bool) {
	if !r.g.step(w) {
		var zero kont.Either[Pair[EA, EB], T]
		return zero, false
	}
	if r.g.triggered {
		return kont.Right[Pair[EA, EB], T](unerase[T](r.g.slots[r.g.winner].out)), true
	}
	return kont.Left[Pair[EA, EB], T](Pair[EA, EB]{
		First:  unerase[EA](r.g.slots[0].out),
		Second: unerase[EB](r.g.slots[1].out),
	}), true
}

func (r *raceOk2Op[EA, EB, T]) PollCancel(w Waker) bool {
	return r.g.cancel(w)
}

// splitEither flattens an Either output into the classifier's triple.
func splitEither[E, V any](e kont.Either[E, V]) (any, any, bool) {
	if l, ok := e.GetLeft(); ok {
		return nil, l, true
	}
	r, _ := e.GetRight()
	return r, nil, false
}
