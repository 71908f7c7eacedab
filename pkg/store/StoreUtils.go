package store

import "encoding/binary"

import bolt "go.etcd.io/bbolt"

import "github.com/sirgallo/logsupervisor/pkg/utils"


//=========================================== Agency Store Utils


/*
	Convert Int To Bytes
		used for version values and stat keys, big endian so bbolt cursors walk them in order
*/

func ConvertIntToBytes(val uint64) []byte {
	byteArray := make([]byte, 8)
	binary.BigEndian.PutUint64(byteArray, val)

	return byteArray
}

func ConvertBytesToInt(byteArray []byte) uint64 {
	if len(byteArray) != 8 { return 0 }
	return binary.BigEndian.Uint64(byteArray)
}

func readVersion(tx *bolt.Tx, key []byte) uint64 {
	return ConvertBytesToInt(tx.Bucket([]byte(VersionBucket)).Get(key))
}

func bumpVersion(tx *bolt.Tx, key []byte) (uint64, error) {
	next := readVersion(tx, key) + 1

	putErr := tx.Bucket([]byte(VersionBucket)).Put(key, ConvertIntToBytes(next))
	if putErr != nil { return 0, putErr }

	return next, nil
}

/*
	Get Document
		decode the value under key in the bucket, nil if it is absent
*/

func getDocument [T any](tx *bolt.Tx, bucketName string, key []byte) (*T, error) {
	val := tx.Bucket([]byte(bucketName)).Get(key)
	if val == nil { return nil, nil }

	return utils.DecodeBytesToStruct[T](val)
}

/*
	Put Document
		encode and store the document under key, a nil document deletes the key
*/

func putDocument [T any](tx *bolt.Tx, bucketName string, key []byte, doc *T) error {
	bucket := tx.Bucket([]byte(bucketName))
	if doc == nil { return bucket.Delete(key) }

	value, encErr := utils.EncodeStructToBytes[T](*doc)
	if encErr != nil { return encErr }

	return bucket.Put(key, value)
}
