package history

import "time"

// Fanout records events in the archive and publishes them to the bus, so
// SSE subscribers see a step the moment it lands in the log.
type Fanout struct {
	archive *Archive
	bus     *Bus
}

// NewFanout wires an archive and a bus into one event recorder.
func NewFanout(archive *Archive, bus *Bus) *Fanout {
	return &Fanout{archive: archive, bus: bus}
}

// Record stores the event and broadcasts it.
func (f *Fanout) Record(roomID, kind, data string) {
	e := &Event{RoomID: roomID, Type: kind, Data: data, CreatedAt: time.Now().UTC()}
	f.archive.RecordEvent(e)
	f.bus.Publish(roomID, e)
}
