// Package hint pairs discovered elements with short typed labels.
//
// Labels come from tiers over a fixed alphabet. Tier 1 is the alphabet
// itself; each following tier extends every label of the previous tier by
// every character, preferring labels made of more distinct characters.
// A request for n labels is served from the smallest tier holding at
// least n labels, so no label handed out is a prefix of another.
package hint
