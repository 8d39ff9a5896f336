// Command orbitsim runs the orbit simulation in a window, a terminal, or headless.
package main

func main() {
	Execute()
}
