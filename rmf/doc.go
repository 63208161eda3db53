// Package rmf computes rotation-minimizing frames along sampled space curves.
/*

A tube, ribbon or corridor swept along a 3D curve needs a moving coordinate
frame at every sample of the curve: a tangent t, and two axes r and s spanning
the cross-section plane. Frenet frames are the textbook choice, but their
normal follows the curvature vector and therefore flips or spins wildly at
inflections and along nearly straight stretches. Rotation-minimizing frames
(RMF) avoid this: starting from a single seed frame, each frame is carried to
the next sample with as little rotation around the tangent as possible.

This package implements the double reflection method described in

   Computation of Rotation Minimizing Frames
   Wenping Wang, Bert Jüttler, Dayue Zheng, Yang Liu
   ACM Transactions on Graphics, Vol. 27, No. 1, 2008

Each step reflects the previous frame across the bisecting plane of the
chord between two consecutive samples, then reflects it once more so that the
reflected tangent coincides with the tangent at the new sample. The
composition of the two reflections is a rotation.

Tangents are estimated by central differences. To have central differences
at the ends of the sample path, the path is extended by two extrapolated
points on either side (see Extend). The seed frame at sample 0 is a discrete
Frenet frame; for paths starting with a straight stretch the seed normal is
undefined and a fallback is used and reported (see ErrDegenerateSeed).

Scale

Lengths are compared against the absolute tolerance tubular.Epsilon (1e-7).
Consecutive samples closer than ε form a degenerate segment, whatever the
extent of the path. As the extrapolated points scale with the boundary
segment's length d, the central chord at either end has length of order d²,
so boundary segments need d² > ε as well. Paths given in very small units
should be scaled up before solving; frames do not change under uniform
scaling of interior samples.

Usage

Clients sample a curve (e.g., with package curve) and hand the samples to
Solve:

   seq, err := rmf.Solve(samples)
   if err != nil {
       ...   // too few samples, coincident samples, invalid coordinates
   }
   if seq.Warning != nil {
       ...   // seed normal had to be chosen by fallback
   }
   for i, f := range seq.Frames {
       ...   // f.T, f.R, f.S at samples[i]
   }

Solve is a pure function of its input and may be called concurrently on
independent sample paths; SolveAll does exactly that for a batch of paths.
*/
package rmf
