// Package ordering computes a mixed-radix digit encoding for subsets of a
// multiset of positive integers (typically satoshi amounts) whose
// lexicographic order follows subset sums.
//
// The sorted input is cut greedily into groups: a new group opens whenever
// the running prefix sum is strictly below the next element. Each group
// becomes one digit position with radix 2^len(group); digit d of a group
// selects the d-th smallest subset of that group by sum. The last group is
// the most significant position. A fully super-increasing input yields
// singleton groups, i.e. plain binary place value.
//
// The greedy cut does not prove the ordering in closed form. Verify walks
// the whole digit space and reports the first tuple whose sum drops below
// its predecessor's. That walk is exponential in the input size, so
// callers outside tests should go through VerifyBounded.
package ordering
