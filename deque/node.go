package deque

type node[T any] struct {
	Value T
	Prev  *node[T]
	Next  *node[T]
}

func (n *node[T]) reset() {
	var zeroValue T
	n.Value = zeroValue
	n.Prev = nil
	n.Next = nil
}
