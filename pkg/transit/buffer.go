package transit

// Buffer is an ordered FIFO of objects in flight at one side of a link. The
// zero value is an empty buffer ready for use. It is not safe for concurrent
// use; the owning endpoint serializes access.
type Buffer struct {
    q []Object
}

// NewBuffer returns a buffer preloaded with objs in order.
func NewBuffer(objs ...Object) *Buffer {
    return &Buffer{q: append([]Object(nil), objs...)}
}

// Enqueue appends obj at the back.
func (b *Buffer) Enqueue(obj Object) { b.q = append(b.q, obj) }

// AppendAll appends objs at the back, preserving their order.
func (b *Buffer) AppendAll(objs []Object) { b.q = append(b.q, objs...) }

// PeekFront returns the front object without removing it.
func (b *Buffer) PeekFront() (Object, bool) {
    if len(b.q) == 0 { return Object{}, false }
    return b.q[0], true
}

// DequeueFront removes and returns the front object.
func (b *Buffer) DequeueFront() (Object, bool) {
    if len(b.q) == 0 { return Object{}, false }
    it := b.q[0]
    copy(b.q[0:], b.q[1:])
    b.q[len(b.q)-1] = Object{}
    b.q = b.q[:len(b.q)-1]
    return it, true
}

func (b *Buffer) IsEmpty() bool { return len(b.q) == 0 }

func (b *Buffer) Len() int { return len(b.q) }

// DrainAll empties the buffer and returns its former contents in order.
func (b *Buffer) DrainAll() []Object {
    out := b.q
    b.q = nil
    return out
}

// Snapshot returns a copy of the contents in order.
func (b *Buffer) Snapshot() []Object { return append([]Object(nil), b.q...) }

// Contains reports whether an object with id is queued.
func (b *Buffer) Contains(id ObjectID) bool {
    for _, o := range b.q {
        if o.ID == id { return true }
    }
    return false
}
