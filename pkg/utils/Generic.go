package utils

import "strconv"


func GetZero [T any]() T {
	var result T
	return result
}

func NormalizePort(port int) string {
	return ":" + strconv.Itoa(port)
}
