// Package model provides the data types shared across the strata pipeline.
//
// The input side of the pipeline consumes [Fragment] values: one span of
// text with its rendered font metadata and page position, grouped per page
// into [PageFragments]. Fragment sources (the source package) produce these;
// the inference engine (the outline package) consumes them read-only.
//
// The output side is the [Outline]: a document title plus an ordered list
// of [Entry] values. Outline marshals to the persisted JSON contract
//
//	{
//	  "title": "...",
//	  "outline": [ { "text": "...", "level": 1, "page": 1 }, ... ]
//	}
//
// where "outline" is always a JSON array, never null.
//
// [BBox] is the small geometric primitive used by sources when assembling
// character runs into line fragments.
package model
