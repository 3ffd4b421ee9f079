package envelope

import (
	"github.com/cluon-io/cluon/cluonjson"
	"github.com/cluon-io/cluon/genericmessage"
	"github.com/cluon-io/cluon/odvd"
	"github.com/cluon-io/cluon/protocodec"
)

const od4HeaderSize = 5

// Frame prepends the OD4 header (0x0D 0xA4 followed by a 24-bit
// little-endian length) to payload, per SPEC_FULL.md §4.G.
func Frame(payload []byte) []byte {
	n := len(payload)
	out := make([]byte, od4HeaderSize+n)
	out[0] = 0x0D
	out[1] = 0xA4
	out[2] = byte(n)
	out[3] = byte(n >> 8)
	out[4] = byte(n >> 16)
	copy(out[od4HeaderSize:], payload)
	return out
}

// Unframe strips an OD4 header from data if one is present, per the
// try-framed-then-unframed rule of §4.G and §9: byte 0 must be 0x0D, byte 1
// must be 0xA4, and the embedded length must equal len(data)-5. Otherwise
// data is returned unchanged, on the assumption it is an unframed Envelope.
func Unframe(data []byte) []byte {
	if len(data) < od4HeaderSize || data[0] != 0x0D || data[1] != 0xA4 {
		return data
	}
	length := uint32(data[2]) | uint32(data[3])<<8 | uint32(data[4])<<16
	if int(length) != len(data)-od4HeaderSize {
		return data
	}
	return data[od4HeaderSize:]
}

// Decode decodes a (possibly OD4-framed) encoded Envelope.
func Decode(data []byte) (*Envelope, error) {
	e := &Envelope{}
	if err := protocodec.Decode(Unframe(data), e); err != nil {
		return nil, err
	}
	return e, nil
}

// Encode encodes e to the Protobuf-compatible wire format, optionally
// prepending an OD4 header.
func Encode(e *Envelope, framed bool) ([]byte, error) {
	b, err := protocodec.Encode(e)
	if err != nil {
		return nil, err
	}
	if framed {
		return Frame(b), nil
	}
	return b, nil
}

// ToJSON implements the EnvelopeToJSON-style transcoding helper of §4.G:
// given the .odvd corpus the payload's schema was parsed from and a
// (possibly OD4-framed) encoded Envelope, it decodes the Envelope, resolves
// its dataType against corpus, builds a GenericMessage for the payload, and
// emits one combined JSON object: the envelope's own fields (minus
// serializedData, replaced by the decoded payload) plus the payload under a
// key named after its long name with dots replaced by underscores.
//
// An empty "{}" is returned, without error, if corpus has no message with
// the envelope's dataType — mirroring the original's "envelope accepted,
// payload schema unknown" tolerance.
func ToJSON(data []byte, corpus *odvd.Corpus) ([]byte, error) {
	env, err := Decode(data)
	if err != nil {
		return nil, err
	}

	payloadMeta, ok := corpus.ByMessageID(uint32(env.DataType))
	if !ok {
		return []byte("{}"), nil
	}

	envelopeJSON, err := cluonjson.Encode(env, cluonjson.Options{Mask: map[uint32]bool{2: false}})
	if err != nil {
		return nil, err
	}

	payload := genericmessage.New(*payloadMeta, corpus)
	if err := protocodec.Decode(env.SerializedData, payload); err != nil {
		return nil, err
	}
	payloadJSON, err := cluonjson.Encode(payload, cluonjson.Options{})
	if err != nil {
		return nil, err
	}

	key := cluonjson.LongNameKey(payloadMeta.LongName)

	out := make([]byte, 0, len(envelopeJSON)+len(payloadJSON)+len(key)+8)
	out = append(out, '{')
	out = append(out, envelopeJSON...)
	out = append(out, ",\n\""...)
	out = append(out, key...)
	out = append(out, "\":{"...)
	out = append(out, payloadJSON...)
	out = append(out, '}', '}')
	return out, nil
}
