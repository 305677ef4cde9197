// Command nsctl lists, hides and restores shell namespace entries.
package main

func main() {
	execute()
}
