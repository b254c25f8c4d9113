package model

import (
	"encoding/json"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IDSet is a set of document references. It keeps insertion order and never holds duplicates.
// It is stored as a plain array so that $addToSet and $pull can operate on it.
type IDSet []primitive.ObjectID

// NewIDSet builds a set from the given ids, dropping duplicates
func NewIDSet(ids ...primitive.ObjectID) IDSet {
	s := make(IDSet, 0, len(ids))
	for _, id := range ids {
		s = s.Add(id)
	}
	return s
}

func (s IDSet) Contains(id primitive.ObjectID) bool {
	for _, member := range s {
		if member == id {
			return true
		}
	}
	return false
}

// Add returns the set with id appended, or the set unchanged if id is already a member
func (s IDSet) Add(id primitive.ObjectID) IDSet {
	if s.Contains(id) {
		return s
	}
	return append(s, id)
}

// Remove returns the set without id
func (s IDSet) Remove(id primitive.ObjectID) IDSet {
	out := make(IDSet, 0, len(s))
	for _, member := range s {
		if member != id {
			out = append(out, member)
		}
	}
	return out
}

// Toggle removes id if present and adds it otherwise. The returned flag tells whether id is now a member
func (s IDSet) Toggle(id primitive.ObjectID) (IDSet, bool) {
	if s.Contains(id) {
		return s.Remove(id), false
	}
	return s.Add(id), true
}

func (s IDSet) Len() int {
	return len(s)
}

// Clone returns a copy that shares no memory with s
func (s IDSet) Clone() IDSet {
	out := make(IDSet, len(s))
	copy(out, s)
	return out
}

// MarshalJSON encodes a nil set as an empty array
func (s IDSet) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]primitive.ObjectID(s))
}

// MarshalBSONValue encodes a nil set as an empty array, never as null
func (s IDSet) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if s == nil {
		return bson.MarshalValue([]primitive.ObjectID{})
	}
	return bson.MarshalValue([]primitive.ObjectID(s))
}
