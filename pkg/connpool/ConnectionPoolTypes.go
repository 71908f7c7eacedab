package connpool

import "sync"

import "google.golang.org/grpc"


type ConnectionPoolOpts struct {
	MaxConn int
}

type ConnectionPool struct {
	mutex sync.Mutex
	connections map[string][]*grpc.ClientConn
	maxConn int
}

const DefaultMaxConn = 10
