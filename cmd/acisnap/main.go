// acisnap - Fabric Snapshot Engine
// Collect. Store. Compare.
package main

func main() {
	Execute()
}
