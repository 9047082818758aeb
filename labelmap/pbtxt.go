package labelmap

import (
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/hupe1980/oidrecord/internal/conv"
)

// stringIntLabelMap describes object_detection.protos.StringIntLabelMap.
// Only the fields used here are declared; others are discarded on read.
var stringIntLabelMap = func() protoreflect.MessageDescriptor {
	optional := descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum()
	repeated := descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()

	file := &descriptorpb.FileDescriptorProto{
		Name:    proto.String("object_detection/protos/string_int_label_map.proto"),
		Package: proto.String("object_detection.protos"),
		Syntax:  proto.String("proto2"),
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("StringIntLabelMapItem"),
				Field: []*descriptorpb.FieldDescriptorProto{
					{Name: proto.String("name"), JsonName: proto.String("name"), Number: proto.Int32(1), Label: optional, Type: descriptorpb.FieldDescriptorProto_TYPE_STRING.Enum()},
					{Name: proto.String("id"), JsonName: proto.String("id"), Number: proto.Int32(2), Label: optional, Type: descriptorpb.FieldDescriptorProto_TYPE_INT32.Enum()},
					{Name: proto.String("display_name"), JsonName: proto.String("displayName"), Number: proto.Int32(3), Label: optional, Type: descriptorpb.FieldDescriptorProto_TYPE_STRING.Enum()},
				},
			},
			{
				Name: proto.String("StringIntLabelMap"),
				Field: []*descriptorpb.FieldDescriptorProto{
					{Name: proto.String("item"), JsonName: proto.String("item"), Number: proto.Int32(1), Label: repeated, Type: descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum(), TypeName: proto.String(".object_detection.protos.StringIntLabelMapItem")},
				},
			},
		},
	}

	fd, err := protodesc.NewFile(file, nil)
	if err != nil {
		panic(fmt.Errorf("labelmap: build descriptor: %w", err))
	}
	return fd.Messages().ByName("StringIntLabelMap")
}()

// ReadPbtxt reads a text format StringIntLabelMap:
//
//	item {
//	  name: "/m/01g317"
//	  id: 1
//	  display_name: "Person"
//	}
func ReadPbtxt(r io.Reader) (*Map, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	msg := dynamicpb.NewMessage(stringIntLabelMap)
	if err := (prototext.UnmarshalOptions{DiscardUnknown: true}).Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	itemField := stringIntLabelMap.Fields().ByName("item")
	itemDesc := itemField.Message()
	nameField := itemDesc.Fields().ByName("name")
	idField := itemDesc.Fields().ByName("id")
	displayField := itemDesc.Fields().ByName("display_name")

	items := msg.Get(itemField).List()
	entries := make([]Entry, 0, items.Len())
	for i := 0; i < items.Len(); i++ {
		item := items.Get(i).Message()
		if !item.Has(idField) {
			return nil, fmt.Errorf("%w: item %d has no id", ErrInvalid, i)
		}
		entries = append(entries, Entry{
			Name:        item.Get(nameField).String(),
			ID:          item.Get(idField).Int(),
			DisplayName: item.Get(displayField).String(),
		})
	}

	return New(entries...)
}

// MarshalPbtxt encodes the map as a text format StringIntLabelMap.
// Ids outside the int32 range of the proto field are rejected.
func (m *Map) MarshalPbtxt() ([]byte, error) {
	itemField := stringIntLabelMap.Fields().ByName("item")
	itemDesc := itemField.Message()

	msg := dynamicpb.NewMessage(stringIntLabelMap)
	items := msg.Mutable(itemField).List()
	for _, e := range m.Entries() {
		id, err := conv.Int64ToInt32(e.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: id of %s: %v", ErrInvalid, e.Name, err)
		}
		item := dynamicpb.NewMessage(itemDesc)
		item.Set(itemDesc.Fields().ByName("name"), protoreflect.ValueOfString(e.Name))
		item.Set(itemDesc.Fields().ByName("id"), protoreflect.ValueOfInt32(id))
		if e.DisplayName != "" {
			item.Set(itemDesc.Fields().ByName("display_name"), protoreflect.ValueOfString(e.DisplayName))
		}
		items.Append(protoreflect.ValueOfMessage(item))
	}

	return prototext.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(msg)
}
