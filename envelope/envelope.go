// Package envelope implements component G of SPEC_FULL.md: the well-known
// Envelope/TimeStamp message pair, OD4 framing, and the EnvelopeToJSON-style
// transcoding helper that combines an Envelope with its schema-resolved
// payload into one JSON object.
package envelope

import (
	"github.com/cluon-io/cluon/odvd"
	"github.com/cluon-io/cluon/visitor"
)

// TimeStamp mirrors cluon's well-known cluon.data.TimeStamp message: a
// POSIX-style (seconds, microseconds) pair used for Envelope.Sent,
// Envelope.Received, and Envelope.SampleTimeStamp.
type TimeStamp struct {
	Seconds      int32
	Microseconds int32
}

var timeStampMeta = odvd.MetaMessage{
	LongName: "cluon.data.TimeStamp",
	ID:       12,
	Fields: []odvd.MetaField{
		{ID: 1, Type: odvd.Int32, Name: "seconds"},
		{ID: 2, Type: odvd.Int32, Name: "microseconds"},
	},
}

func (t *TimeStamp) Meta() odvd.MetaMessage { return timeStampMeta }

func (t *TimeStamp) Accept(v visitor.Visitor) {
	v.PreVisit(timeStampMeta.ID, timeStampMeta.ShortName(), timeStampMeta.LongName)
	v.VisitInt32(1, "seconds", &t.Seconds)
	v.VisitInt32(2, "microseconds", &t.Microseconds)
	v.PostVisit()
}

func (t *TimeStamp) AcceptTarget(v visitor.Visitor, fieldID uint32) {
	switch fieldID {
	case 1:
		v.VisitInt32(1, "seconds", &t.Seconds)
	case 2:
		v.VisitInt32(2, "microseconds", &t.Microseconds)
	}
}

// Envelope mirrors cluon's well-known cluon.data.Envelope message: it
// carries a payload's message identifier plus its proto-encoded bytes, a
// trio of timestamps, and a sender-assigned stamp distinguishing multiple
// instances of the same payload type on one conference (§4.G, §6).
type Envelope struct {
	DataType        int32
	SerializedData  []byte
	Sent            TimeStamp
	Received        TimeStamp
	SampleTimeStamp TimeStamp
	SenderStamp     uint32
}

var envelopeMeta = odvd.MetaMessage{
	LongName: "cluon.data.Envelope",
	ID:       1,
	Fields: []odvd.MetaField{
		{ID: 1, Type: odvd.Int32, Name: "dataType"},
		{ID: 2, Type: odvd.Bytes, Name: "serializedData"},
		{ID: 3, Type: odvd.Message, Name: "sent", MessageTypeName: "cluon.data.TimeStamp"},
		{ID: 4, Type: odvd.Message, Name: "received", MessageTypeName: "cluon.data.TimeStamp"},
		{ID: 5, Type: odvd.Message, Name: "sampleTimeStamp", MessageTypeName: "cluon.data.TimeStamp"},
		{ID: 6, Type: odvd.Uint32, Name: "senderStamp"},
	},
}

func (e *Envelope) Meta() odvd.MetaMessage { return envelopeMeta }

func (e *Envelope) Accept(v visitor.Visitor) {
	v.PreVisit(envelopeMeta.ID, envelopeMeta.ShortName(), envelopeMeta.LongName)
	v.VisitInt32(1, "dataType", &e.DataType)
	v.VisitBytes(2, "serializedData", &e.SerializedData)
	v.VisitMessage(3, "sent", &e.Sent)
	v.VisitMessage(4, "received", &e.Received)
	v.VisitMessage(5, "sampleTimeStamp", &e.SampleTimeStamp)
	v.VisitUint32(6, "senderStamp", &e.SenderStamp)
	v.PostVisit()
}

func (e *Envelope) AcceptTarget(v visitor.Visitor, fieldID uint32) {
	switch fieldID {
	case 1:
		v.VisitInt32(1, "dataType", &e.DataType)
	case 2:
		v.VisitBytes(2, "serializedData", &e.SerializedData)
	case 3:
		v.VisitMessage(3, "sent", &e.Sent)
	case 4:
		v.VisitMessage(4, "received", &e.Received)
	case 5:
		v.VisitMessage(5, "sampleTimeStamp", &e.SampleTimeStamp)
	case 6:
		v.VisitUint32(6, "senderStamp", &e.SenderStamp)
	}
}
