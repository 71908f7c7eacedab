package utils

import "encoding/json"


//=========================================== Encode/Decode JSON Utils


/*
	encode a struct of type T to a byte array
*/

func EncodeStructToBytes [T any](data T) ([]byte, error) {
	encoded, err := json.Marshal(data)
	if err != nil { return nil, err }

	return encoded, nil
}

/*
	decode a byte array to a struct of type T
*/

func DecodeBytesToStruct [T any](encoded []byte) (*T, error) {
	data := new(T)
	err := json.Unmarshal(encoded, data)
	if err != nil { return nil, err }
	
	return data, nil
}
