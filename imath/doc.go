// Package imath is the native numeric library exposed to the host: vectors,
// colours, matrices, quaternions, Euler angles, boxes, lines, planes,
// frustums, shears, random generators and scalar utility functions.
//
// Types are generic over their scalar kind and are plain values. Matrices
// are row-major and transform row vectors, so m1.Mul(m2) applies m1 first.
// Operations that can fail return an *iex.Exc of the matching Imath class
// (NullVecExc, SingMatrixExc, NullQuatExc, IntVecNormalizeExc, ...).
package imath
