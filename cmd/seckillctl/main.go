package main

import "seckill-service/cmd/seckillctl/commands"

func main() {
	commands.Execute()
}
