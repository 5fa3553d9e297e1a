package transit

import "testing"

func TestBufferFIFO(t *testing.T) {
    var b Buffer
    if !b.IsEmpty() { t.Fatalf("zero buffer should be empty") }
    a, c := Cargo("a"), Cargo("c")
    b.Enqueue(a)
    b.AppendAll([]Object{c, Actor("d", true)})
    if b.Len() != 3 { t.Fatalf("Len=3 expected, got %d", b.Len()) }
    if f, ok := b.PeekFront(); !ok || f.ID != a.ID { t.Fatalf("peek mismatch: %v %v", f, ok) }
    if f, ok := b.DequeueFront(); !ok || f.ID != a.ID { t.Fatalf("dequeue mismatch: %v %v", f, ok) }
    if f, _ := b.PeekFront(); f.ID != c.ID { t.Fatalf("expected c at front, got %v", f) }
    if !b.Contains(c.ID) || b.Contains(a.ID) { t.Fatalf("Contains mismatch") }
}

func TestBufferDrainAll(t *testing.T) {
    b := NewBuffer(Cargo("x"), Cargo("y"))
    out := b.DrainAll()
    if len(out) != 2 || out[0].Label != "x" || out[1].Label != "y" { t.Fatalf("drain order mismatch: %v", out) }
    if !b.IsEmpty() { t.Fatalf("buffer not empty after drain") }
    if again := b.DrainAll(); len(again) != 0 { t.Fatalf("second drain returned %v", again) }
    if _, ok := b.DequeueFront(); ok { t.Fatalf("dequeue on empty buffer succeeded") }
}

func TestSnapshotIsCopy(t *testing.T) {
    b := NewBuffer(Cargo("x"))
    s := b.Snapshot()
    s[0].Label = "changed"
    if f, _ := b.PeekFront(); f.Label != "x" { t.Fatalf("snapshot aliased buffer storage") }
}

func TestNeedsRedraft(t *testing.T) {
    if Cargo("c").NeedsRedraft() { t.Fatalf("cargo never needs redraft") }
    if Actor("p", false).NeedsRedraft() { t.Fatalf("uncommanded actor needs no redraft") }
    if !Actor("p", true).NeedsRedraft() { t.Fatalf("commanded actor needs redraft") }
    if Cargo("a").ID == Cargo("a").ID { t.Fatalf("identities must be unique") }
}
