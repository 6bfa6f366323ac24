package invoice

// LineItemsPerPage is how many line items fit on one template page.
const LineItemsPerPage = 10

// PaginateLineItems splits items into contiguous chunks of exactly
// capacity items, except the final chunk which holds the remainder
// (1..capacity). The cursor advances by the full capacity, so chunks
// never overlap and concatenating them reproduces the input in order.
// No chunk is ever empty; an empty input yields no chunks.
func PaginateLineItems(items []NormalizedLineItem, capacity int) [][]NormalizedLineItem {
	if capacity < 1 {
		capacity = LineItemsPerPage
	}
	if len(items) == 0 {
		return nil
	}

	chunks := make([][]NormalizedLineItem, 0, (len(items)+capacity-1)/capacity)
	for start := 0; start < len(items); start += capacity {
		end := min(start+capacity, len(items))
		chunks = append(chunks, items[start:end])
	}
	return chunks
}
