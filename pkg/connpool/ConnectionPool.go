package connpool

import "errors"

import "google.golang.org/grpc"
import "google.golang.org/grpc/connectivity"
import "google.golang.org/grpc/credentials/insecure"


//=========================================== Connection Pool


var ErrMaxConnections = errors.New("max connections reached")

/*
	initialize the connection pool

	the pool reuses connections to participants across health rounds so the health prober does
	not pay for a new dial on every check

	the pool has the following structure, guarded by the pool mutex:
		{
			[key: address]: Array<connections>
		}
*/

func NewConnectionPool(opts ConnectionPoolOpts) *ConnectionPool {
	maxConn := opts.MaxConn
	if maxConn <= 0 { maxConn = DefaultMaxConn }

	return &ConnectionPool{
		connections: make(map[string][]*grpc.ClientConn),
		maxConn: maxConn,
	}
}

/*
	Get Connection:
		1.) lock the pool, lookup and append happen as one step
		2.) return the first connection for the address that is ready, idle or still connecting
		3.) if none is usable and the total connections is at max, throw max connections error
		4.) otherwise dial a new grpc connection (non blocking), store it under the address and
			return it
*/

func (cp *ConnectionPool) GetConnection(addr string) (*grpc.ClientConn, error) {
	cp.mutex.Lock()
	defer cp.mutex.Unlock()

	connections := cp.connections[addr]
	for _, conn := range connections {
		state := conn.GetState()
		if state == connectivity.Ready || state == connectivity.Idle || state == connectivity.Connecting { return conn, nil }
	}

	if len(connections) >= cp.maxConn { return nil, ErrMaxConnections }

	newConn, connErr := grpc.Dial(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if connErr != nil { return nil, connErr }

	cp.connections[addr] = append(connections, newConn)
	return newConn, nil
}

/*
	Close Connections:
		drop every connection for the address, used once a participant is considered unreachable
		so the next check dials fresh
*/

func (cp *ConnectionPool) CloseConnections(addr string) error {
	cp.mutex.Lock()
	connections := cp.connections[addr]
	delete(cp.connections, addr)
	cp.mutex.Unlock()

	return closeAll(connections)
}

func (cp *ConnectionPool) CloseAll() error {
	cp.mutex.Lock()
	var connections []*grpc.ClientConn
	for _, conns := range cp.connections {
		connections = append(connections, conns...)
	}

	cp.connections = make(map[string][]*grpc.ClientConn)
	cp.mutex.Unlock()

	return closeAll(connections)
}

func closeAll(connections []*grpc.ClientConn) error {
	var closeErrs []error
	for _, conn := range connections {
		closeErr := conn.Close()
		if closeErr != nil { closeErrs = append(closeErrs, closeErr) }
	}

	return errors.Join(closeErrs...)
}
