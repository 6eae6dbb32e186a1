// Package digest computes content digests and tracks which digests have
// already been stored.
//
// A [Digest] is a SHA-256 sum. It is used for equality checks only, never
// for integrity or security decisions.
//
// # Usage
//
//	d, err := digest.SumFile("image_1.webp")
//
//	set := digest.NewSet()
//	if set.Admit(d) {
//	    // first time this content was seen: store it
//	}
//
// [Set.Admit] is the single way to insert into a [Set]. It checks and
// inserts under one lock so concurrent callers racing on identical content
// cannot both win.
package digest
