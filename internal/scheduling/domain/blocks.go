package domain

// SectionBlock is a section header with its stage blocks. Header is nil only
// for rows that precede the first SectionRow; Leading holds rows between the
// header and the first StageRow.
type SectionBlock struct {
	Header    *SectionRow
	Leading   []Row
	Stages    []StageBlock
	TaskCount int
}

// StageBlock is a stage header and the rows up to the next stage or section.
type StageBlock struct {
	Header      StageRow
	ContentRows []Row
	TaskCount   int
}

// Segment is a category header and the contiguous rows after it. Category is
// nil for rows that precede the first CategoryRow of a stage.
type Segment struct {
	Category  *CategoryRow
	Rows      []Row
	TaskCount int
}

// Uncategorized reports whether the segment is the "no category" bucket.
func (s Segment) Uncategorized() bool {
	return s.Category == nil || s.Category.SlotKind == SlotUncategorized
}

// GroupRowsIntoBlocks re-nests a flat row list. FlattenBlocks of the result
// returns the input rows in the same order.
func GroupRowsIntoBlocks(rows []Row) []SectionBlock {
	var blocks []SectionBlock
	var current *SectionBlock

	flush := func() {
		if current != nil {
			blocks = append(blocks, *current)
			current = nil
		}
	}

	for _, row := range rows {
		switch r := row.(type) {
		case SectionRow:
			flush()
			header := r
			current = &SectionBlock{Header: &header}
			continue
		case StageRow:
			if current == nil {
				current = &SectionBlock{}
			}
			current.Stages = append(current.Stages, StageBlock{Header: r})
			continue
		}

		if current == nil {
			current = &SectionBlock{}
		}
		leaf := 0
		if IsLeaf(row) {
			leaf = 1
		}
		current.TaskCount += leaf
		if n := len(current.Stages); n > 0 {
			stage := &current.Stages[n-1]
			stage.ContentRows = append(stage.ContentRows, row)
			stage.TaskCount += leaf
			continue
		}
		current.Leading = append(current.Leading, row)
	}
	flush()
	return blocks
}

// GetStageSegments partitions a stage block's content rows at each CategoryRow.
func GetStageSegments(block StageBlock) []Segment {
	var segments []Segment
	for _, row := range block.ContentRows {
		if c, ok := row.(CategoryRow); ok {
			header := c
			segments = append(segments, Segment{Category: &header})
			continue
		}
		if len(segments) == 0 {
			segments = append(segments, Segment{})
		}
		seg := &segments[len(segments)-1]
		seg.Rows = append(seg.Rows, row)
		if IsLeaf(row) {
			seg.TaskCount++
		}
	}
	return segments
}

// FlattenBlocks concatenates blocks back into the flat row order.
func FlattenBlocks(blocks []SectionBlock) []Row {
	var rows []Row
	for _, b := range blocks {
		if b.Header != nil {
			rows = append(rows, *b.Header)
		}
		rows = append(rows, b.Leading...)
		for _, s := range b.Stages {
			rows = append(rows, s.Header)
			rows = append(rows, s.ContentRows...)
		}
	}
	return rows
}

// FlattenSegments concatenates segments back into content rows.
func FlattenSegments(segments []Segment) []Row {
	var rows []Row
	for _, s := range segments {
		if s.Category != nil {
			rows = append(rows, *s.Category)
		}
		rows = append(rows, s.Rows...)
	}
	return rows
}

// FilterPhantoms returns the rows without affordance anchors, keeping the
// relative order of everything else.
func FilterPhantoms(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if !IsPhantom(r) {
			out = append(out, r)
		}
	}
	return out
}
