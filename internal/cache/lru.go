package cache

// lruNode is a node of the recency list. It stores its key so eviction can
// find the map entry.
type lruNode struct {
	key        Key
	prev, next *lruNode
}

// lruList orders keys by recency: head is the most recently used.
// It is not synchronized; Table guards it.
type lruList struct {
	head, tail *lruNode
}

func (l *lruList) pushFront(key Key) *lruNode {
	n := &lruNode{key: key}
	l.linkFront(n)
	return n
}

func (l *lruList) moveToFront(n *lruNode) {
	if n == nil || n == l.head {
		return
	}
	l.remove(n)
	l.linkFront(n)
}

func (l *lruList) back() *lruNode {
	return l.tail
}

func (l *lruList) linkFront(n *lruNode) {
	n.prev = nil
	n.next = l.head
	if l.head != nil {
		l.head.prev = n
	}
	l.head = n
	if l.tail == nil {
		l.tail = n
	}
}

func (l *lruList) remove(n *lruNode) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
	n.prev, n.next = nil, nil
}
